package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/bpview/pkg/fit"
)

// RenderSVG renders plan as a standalone SVG document of the viewport's size.
// An empty plan yields a document containing only the background.
func RenderSVG(plan fit.Plan, vp fit.Viewport, opts ...Option) []byte {
	o := newOptions(opts...)
	s := o.style

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		vp.Width, vp.Height, vp.Width, vp.Height)
	if o.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(o.title))
	}
	fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		vp.Width, vp.Height, s.Background)

	if plan.Stroked() {
		pts := make([]string, len(plan.Path))
		for i, p := range plan.Path {
			pts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
		}
		fmt.Fprintf(&buf, `  <polyline class="path" points="%s" fill="none" stroke="%s" stroke-width="%.1f"/>`+"\n",
			strings.Join(pts, " "), s.Stroke, s.StrokeWidth)
	}

	for _, m := range plan.Markers {
		fmt.Fprintf(&buf, `  <circle class="marker %s" cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n",
			m.Kind, m.X, m.Y, s.Radius, s.Fill(m.Kind))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
