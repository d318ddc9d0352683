package render

import (
	"bytes"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/bpview/pkg/fit"
)

// Canvas is a raster drawing surface sized to a viewport.
//
// Draw clears the canvas before drawing, so a canvas can be reused across
// selection changes and redrawn any number of times. A Canvas is not safe
// for concurrent use.
type Canvas struct {
	dc    *gg.Context
	vp    fit.Viewport
	style Style
}

// NewCanvas creates a canvas for vp. The pixel size is the viewport size
// multiplied by the scale option.
func NewCanvas(vp fit.Viewport, opts ...Option) *Canvas {
	o := newOptions(opts...)
	w := int(math.Ceil(vp.Width * o.scale))
	h := int(math.Ceil(vp.Height * o.scale))

	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.Scale(o.scale, o.scale)

	c := &Canvas{dc: dc, vp: vp, style: o.style}
	c.Clear()
	return c
}

// Clear paints the whole canvas with the background color.
func (c *Canvas) Clear() {
	c.dc.SetHexColor(c.style.Background)
	c.dc.Clear()
}

// Draw clears the canvas and draws plan on it.
func (c *Canvas) Draw(plan fit.Plan) {
	c.Clear()
	if plan.Empty() {
		return
	}

	if plan.Stroked() {
		c.dc.NewSubPath()
		c.dc.MoveTo(plan.Path[0].X, plan.Path[0].Y)
		for _, p := range plan.Path[1:] {
			c.dc.LineTo(p.X, p.Y)
		}
		c.dc.SetHexColor(c.style.Stroke)
		c.dc.SetLineWidth(c.style.StrokeWidth)
		c.dc.Stroke()
	}

	for _, m := range plan.Markers {
		c.dc.DrawCircle(m.X, m.Y, c.style.Radius)
		c.dc.SetHexColor(c.style.Fill(m.Kind))
		c.dc.Fill()
	}
}

// Viewport returns the viewport the canvas was created for.
func (c *Canvas) Viewport() fit.Viewport { return c.vp }

// Image returns the canvas pixels.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the canvas as PNG to w.
func (c *Canvas) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }

// RenderPNG draws plan on a fresh canvas and returns the PNG bytes.
func RenderPNG(plan fit.Plan, vp fit.Viewport, opts ...Option) ([]byte, error) {
	c := NewCanvas(vp, opts...)
	c.Draw(plan)

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
