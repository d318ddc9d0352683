package render

import "github.com/matzehuels/bpview/pkg/fit"

// Style holds the colors and sizes used to draw a plan.
type Style struct {
	Background  string  // Canvas background color (hex)
	Stroke      string  // Path stroke color (hex)
	StrokeWidth float64 // Path stroke width in viewport units
	Radius      float64 // Marker radius in viewport units
	StartFill   string  // Fill color of the start marker (hex)
	MarkerFill  string  // Fill color of all other markers (hex)
}

// DefaultStyle returns the blueprint viewer palette.
func DefaultStyle() Style {
	return Style{
		Background:  "#ffffff",
		Stroke:      "#3498db",
		StrokeWidth: 2,
		Radius:      3,
		StartFill:   "#2ecc71",
		MarkerFill:  "#e74c3c",
	}
}

// Fill returns the marker fill color for kind.
func (s Style) Fill(kind fit.Kind) string {
	if kind == fit.Start {
		return s.StartFill
	}
	return s.MarkerFill
}

// Option configures a surface.
type Option func(*options)

type options struct {
	style Style
	title string
	scale float64
}

func newOptions(opts ...Option) options {
	o := options{style: DefaultStyle(), scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scale <= 0 {
		o.scale = 1
	}
	return o
}

// WithStyle replaces the default style.
func WithStyle(s Style) Option { return func(o *options) { o.style = s } }

// WithTitle attaches a title (the blueprint name) to surfaces that support one.
func WithTitle(title string) Option { return func(o *options) { o.title = title } }

// WithScale sets the raster scale factor (default 1.0). Only raster
// surfaces use it.
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }
