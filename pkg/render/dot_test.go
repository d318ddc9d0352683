package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/bpview/pkg/fit"
)

func TestToDOT(t *testing.T) {
	plan, vp := scenarioPlan()
	dot := ToDOT(plan, vp, WithTitle("house"))

	if !strings.HasPrefix(dot, "graph G {") {
		t.Fatalf("not an undirected graph:\n%s", dot)
	}
	if !strings.Contains(dot, `label="house"`) {
		t.Error("DOT should carry the title as graph label")
	}
	// y is flipped against the viewport height.
	if !strings.Contains(dot, `p0 [pos="20.00,380.00!", fillcolor="#2ecc71"]`) {
		t.Errorf("start node missing or misplaced:\n%s", dot)
	}
	if !strings.Contains(dot, `p2 [pos="380.00,20.00!", fillcolor="#e74c3c"]`) {
		t.Errorf("last node missing or misplaced:\n%s", dot)
	}
	for _, e := range []string{"p0 -- p1;", "p1 -- p2;"} {
		if !strings.Contains(dot, e) {
			t.Errorf("missing edge %q", e)
		}
	}
	if strings.Contains(dot, "p2 -- p0") {
		t.Error("path must not be closed")
	}
}

func TestToDOTEmptyPlan(t *testing.T) {
	dot := ToDOT(fit.Plan{}, fit.DefaultViewport())
	if strings.Contains(dot, "pos=") || strings.Contains(dot, "--") {
		t.Errorf("empty plan should have no nodes or edges:\n%s", dot)
	}
}
