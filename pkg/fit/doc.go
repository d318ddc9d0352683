// Package fit scales a blueprint's points into a fixed viewport.
//
// [Fit] is the core of bpview: given an ordered point sequence and a
// [Viewport], it produces a [Plan] holding the transformed polyline and one
// [Marker] per point, ready to be drawn without further transformation.
//
// # Algorithm
//
// The points' bounding box is scaled uniformly so that its longer side
// (relative to the drawable area) fills the viewport minus the margin on
// every side, then translated so the box's minimum corner sits at
// (margin, margin):
//
//	scale = min((w - 2m) / (maxX - minX), (h - 2m) / (maxY - minY))
//	out   = (p - min) * scale + m
//
// When all points share an x (or y) coordinate the corresponding extent is
// replaced by 1, so a single point lands at (margin, margin) and a vertical
// or horizontal line collapses onto the margin instead of producing NaN or
// Inf values.
//
// # Usage
//
//	plan := fit.Fit(bp.Points, fit.Viewport{Width: 400, Height: 400, Margin: 20})
//	for _, m := range plan.Markers {
//	    if m.Kind == fit.Start { ... }
//	}
//
// Fit is pure: identical inputs always produce identical plans, so shells
// may call it again whenever the selection changes or a surface becomes
// ready. Callers taking viewport sizes from users should use [FitChecked],
// which rejects malformed viewports with an INVALID_VIEWPORT error.
package fit
