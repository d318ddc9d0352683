package render

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/bpview/pkg/fit"
)

func TestRenderJSON(t *testing.T) {
	plan, vp := scenarioPlan()
	data, err := RenderJSON(plan, vp, WithTitle("house"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out struct {
		Name     string       `json:"name"`
		Viewport fit.Viewport `json:"viewport"`
		Scale    float64      `json:"scale"`
		Markers  []fit.Marker `json:"markers"`
		Path     []struct {
			X, Y float64
		} `json:"path"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Name != "house" {
		t.Errorf("name = %q, want house", out.Name)
	}
	if out.Viewport != vp {
		t.Errorf("viewport = %+v, want %+v", out.Viewport, vp)
	}
	if out.Scale != 36 {
		t.Errorf("scale = %v, want 36", out.Scale)
	}
	if len(out.Markers) != 3 || out.Markers[0].Kind != fit.Start {
		t.Errorf("markers = %+v", out.Markers)
	}
	if len(out.Path) != 3 || out.Path[1].X != 380 {
		t.Errorf("path = %+v", out.Path)
	}
}

func TestRenderJSONEmptyPlan(t *testing.T) {
	data, err := RenderJSON(fit.Plan{}, fit.DefaultViewport())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if m, ok := out["markers"].([]any); !ok || len(m) != 0 {
		t.Errorf("markers = %v, want []", out["markers"])
	}
	if p, ok := out["path"].([]any); !ok || len(p) != 0 {
		t.Errorf("path = %v, want []", out["path"])
	}
}
