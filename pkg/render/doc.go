// Package render applies fit plans to drawing surfaces.
//
// # Overview
//
// A surface takes a [fit.Plan] produced for a viewport and draws it:
// the polyline is stroked and every marker is filled as a small circle,
// the start marker in its own color. Every surface clears itself before
// drawing, so applying the same plan twice leaves exactly the same
// output as applying it once.
//
// Surfaces:
//
//   - [RenderSVG]: standalone SVG document sized to the viewport
//   - [Canvas] / [RenderPNG]: raster canvas backed by fogleman/gg
//   - [Braille]: terminal canvas built from Unicode braille cells
//   - [ToDOT] / [RenderDOTSVG]: Graphviz graph with pinned vertices
//   - [RenderJSON]: plan export for external tools
//   - [ToPDF]: SVG to PDF conversion via rsvg-convert
//
// # Styling
//
// [DefaultStyle] reproduces the blueprint viewer palette: a #3498db path
// of width 2 and markers of radius 3, green for the start point and red
// for the rest. Options such as [WithStyle] and [WithTitle] apply to all
// surfaces.
//
//	plan := fit.Fit(bp.Points, vp)
//	svg := render.RenderSVG(plan, vp, render.WithTitle(bp.Name))
//	png, err := render.RenderPNG(plan, vp, render.WithScale(2))
package render
