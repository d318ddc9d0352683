package fit

import (
	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/errors"
)

// Default viewport used by the shells, matching the original canvas.
const (
	DefaultWidth  = 400.0
	DefaultHeight = 400.0
	DefaultMargin = 20.0
)

// Viewport is the target drawing area with a margin reserved on all sides.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
}

// DefaultViewport returns the 400x400 viewport with a 20 unit margin.
func DefaultViewport() Viewport {
	return Viewport{Width: DefaultWidth, Height: DefaultHeight, Margin: DefaultMargin}
}

// Validate reports whether the viewport has positive dimensions and a
// margin leaving a non-empty drawable area.
func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidViewport, "viewport %gx%g must have positive size", v.Width, v.Height)
	}
	if v.Margin <= 0 {
		return errors.New(errors.ErrCodeInvalidViewport, "margin %g must be positive", v.Margin)
	}
	if v.Margin >= min(v.Width, v.Height)/2 {
		return errors.New(errors.ErrCodeInvalidViewport, "margin %g too large for %gx%g viewport", v.Margin, v.Width, v.Height)
	}
	return nil
}

// DrawWidth returns the horizontal extent available inside the margins.
func (v Viewport) DrawWidth() float64 { return v.Width - 2*v.Margin }

// DrawHeight returns the vertical extent available inside the margins.
func (v Viewport) DrawHeight() float64 { return v.Height - 2*v.Margin }

// Kind tags a marker as the start of the polyline or a regular vertex.
type Kind string

const (
	Start   Kind = "start"
	Regular Kind = "regular"
)

// Marker is a transformed point drawn as a dot.
type Marker struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Kind Kind    `json:"kind"`
}

// Plan is the output of [Fit]: a polyline and marker list in viewport
// coordinates. Path and Markers visit the points in input order.
type Plan struct {
	Path    []blueprint.Point `json:"path"`
	Markers []Marker          `json:"markers"`
	Scale   float64           `json:"scale"`
}

// Empty reports whether the plan draws nothing.
func (p Plan) Empty() bool { return len(p.Markers) == 0 }

// Stroked reports whether the plan's path has at least one segment.
// A single point yields a zero-length path that surfaces do not stroke.
func (p Plan) Stroked() bool { return len(p.Path) > 1 }

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Bounds returns the componentwise extrema of points.
// The second result is false when points is empty.
func Bounds(points []blueprint.Point) (Box, bool) {
	if len(points) == 0 {
		return Box{}, false
	}
	b := Box{MinX: points[0].X, MaxX: points[0].X, MinY: points[0].Y, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MaxX = max(b.MaxX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b, true
}

// extent returns hi-lo, or 1 for a degenerate axis.
func extent(lo, hi float64) float64 {
	if hi == lo {
		return 1
	}
	return hi - lo
}

// Fit transforms points into vp. An empty input yields an empty plan.
// Fit does not validate vp; see [FitChecked].
func Fit(points []blueprint.Point, vp Viewport) Plan {
	box, ok := Bounds(points)
	if !ok {
		return Plan{}
	}

	scaleX := vp.DrawWidth() / extent(box.MinX, box.MaxX)
	scaleY := vp.DrawHeight() / extent(box.MinY, box.MaxY)
	scale := min(scaleX, scaleY)

	plan := Plan{
		Path:    make([]blueprint.Point, len(points)),
		Markers: make([]Marker, len(points)),
		Scale:   scale,
	}
	for i, p := range points {
		out := blueprint.Point{
			X: (p.X-box.MinX)*scale + vp.Margin,
			Y: (p.Y-box.MinY)*scale + vp.Margin,
		}
		kind := Regular
		if i == 0 {
			kind = Start
		}
		plan.Path[i] = out
		plan.Markers[i] = Marker{X: out.X, Y: out.Y, Kind: kind}
	}
	return plan
}

// FitChecked validates vp and then fits points into it.
func FitChecked(points []blueprint.Point, vp Viewport) (Plan, error) {
	if err := vp.Validate(); err != nil {
		return Plan{}, err
	}
	return Fit(points, vp), nil
}
