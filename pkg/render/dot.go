package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bpview/pkg/fit"
)

// pointsPerInch converts viewport units to Graphviz inches.
const pointsPerInch = 72.0

// ToDOT converts plan to an undirected Graphviz graph. Each marker becomes
// a node pinned at its viewport position and consecutive path points are
// joined by edges. Graphviz places y upwards, so y is flipped against the
// viewport height to keep the drawing orientation of the other surfaces.
func ToDOT(plan fit.Plan, vp fit.Viewport, opts ...Option) string {
	o := newOptions(opts...)
	s := o.style

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if o.title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", o.title)
	}
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", s.Background)
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, label=\"\", penwidth=0, width=%.4f];\n",
		2*s.Radius/pointsPerInch)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=%.1f];\n", s.Stroke, s.StrokeWidth)
	buf.WriteString("\n")

	for i, m := range plan.Markers {
		fmt.Fprintf(&buf, "  p%d [pos=\"%.2f,%.2f!\", fillcolor=%q];\n",
			i, m.X, vp.Height-m.Y, s.Fill(m.Kind))
	}

	if plan.Stroked() {
		buf.WriteString("\n")
		for i := 1; i < len(plan.Path); i++ {
			fmt.Fprintf(&buf, "  p%d -- p%d;\n", i-1, i)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG lays out a DOT graph produced by [ToDOT] with the neato
// engine, which honors pinned node positions, and returns the SVG.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
