package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/fit"
)

func scenarioPlan() (fit.Plan, fit.Viewport) {
	vp := fit.DefaultViewport()
	points := []blueprint.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	return fit.Fit(points, vp), vp
}

func TestRenderSVG(t *testing.T) {
	plan, vp := scenarioPlan()
	svg := string(RenderSVG(plan, vp, WithTitle("house")))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an SVG document:\n%s", svg)
	}
	if !strings.Contains(svg, `width="400" height="400"`) {
		t.Error("SVG should be sized to the viewport")
	}
	if !strings.Contains(svg, "<title>house</title>") {
		t.Error("SVG should carry the title")
	}
	if got := strings.Count(svg, "<polyline"); got != 1 {
		t.Errorf("polylines = %d, want 1", got)
	}
	if !strings.Contains(svg, `points="20.00,20.00 380.00,20.00 380.00,380.00"`) {
		t.Errorf("polyline points not in input order:\n%s", svg)
	}
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("circles = %d, want 3", got)
	}
	if got := strings.Count(svg, `class="marker start"`); got != 1 {
		t.Errorf("start markers = %d, want 1", got)
	}
	if !strings.Contains(svg, `fill="#2ecc71"`) || !strings.Contains(svg, `fill="#e74c3c"`) {
		t.Error("markers should use start and regular colors")
	}
	if !strings.Contains(svg, `stroke="#3498db" stroke-width="2.0"`) {
		t.Error("path should use the default stroke")
	}
}

func TestRenderSVGEmptyPlan(t *testing.T) {
	svg := string(RenderSVG(fit.Plan{}, fit.DefaultViewport()))
	if strings.Contains(svg, "<polyline") || strings.Contains(svg, "<circle") {
		t.Errorf("empty plan should draw nothing:\n%s", svg)
	}
}

func TestRenderSVGSinglePoint(t *testing.T) {
	vp := fit.DefaultViewport()
	plan := fit.Fit([]blueprint.Point{{X: 3, Y: 4}}, vp)
	svg := string(RenderSVG(plan, vp))

	if strings.Contains(svg, "<polyline") {
		t.Error("single point should not be stroked")
	}
	if !strings.Contains(svg, `class="marker start" cx="20.00" cy="20.00"`) {
		t.Errorf("single start marker expected at the margin:\n%s", svg)
	}
}

func TestRenderSVGEscapesTitle(t *testing.T) {
	svg := string(RenderSVG(fit.Plan{}, fit.DefaultViewport(), WithTitle("<a & b>")))
	if !strings.Contains(svg, "<title>&lt;a &amp; b&gt;</title>") {
		t.Errorf("title not escaped:\n%s", svg)
	}
}

func TestRenderSVGIdempotent(t *testing.T) {
	plan, vp := scenarioPlan()
	if !bytes.Equal(RenderSVG(plan, vp), RenderSVG(plan, vp)) {
		t.Error("RenderSVG should be deterministic")
	}
}

func TestRenderSVGCustomStyle(t *testing.T) {
	plan, vp := scenarioPlan()
	s := DefaultStyle()
	s.Stroke = "#000000"
	s.Radius = 5
	svg := string(RenderSVG(plan, vp, WithStyle(s)))

	if !strings.Contains(svg, `stroke="#000000"`) || !strings.Contains(svg, `r="5.0"`) {
		t.Errorf("custom style not applied:\n%s", svg)
	}
}
