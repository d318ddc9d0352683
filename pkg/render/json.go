package render

import (
	"encoding/json"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/fit"
)

type jsonOutput struct {
	Name     string            `json:"name,omitempty"`
	Viewport fit.Viewport      `json:"viewport"`
	Scale    float64           `json:"scale"`
	Style    jsonStyle         `json:"style"`
	Path     []blueprint.Point `json:"path"`
	Markers  []fit.Marker      `json:"markers"`
}

type jsonStyle struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Radius      float64 `json:"radius"`
	StartFill   string  `json:"start_fill"`
	MarkerFill  string  `json:"marker_fill"`
}

// RenderJSON exports plan, its viewport and the drawing style as indented
// JSON. The title option is written as "name". Empty plans are written
// with empty path and marker arrays rather than nulls.
func RenderJSON(plan fit.Plan, vp fit.Viewport, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)

	out := jsonOutput{
		Name:     o.title,
		Viewport: vp,
		Scale:    plan.Scale,
		Style: jsonStyle{
			Stroke:      o.style.Stroke,
			StrokeWidth: o.style.StrokeWidth,
			Radius:      o.style.Radius,
			StartFill:   o.style.StartFill,
			MarkerFill:  o.style.MarkerFill,
		},
		Path:    plan.Path,
		Markers: plan.Markers,
	}
	if out.Path == nil {
		out.Path = []blueprint.Point{}
	}
	if out.Markers == nil {
		out.Markers = []fit.Marker{}
	}
	return json.MarshalIndent(out, "", "  ")
}
