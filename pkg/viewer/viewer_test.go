package viewer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/fit"
	"github.com/matzehuels/bpview/pkg/render"
	"github.com/matzehuels/bpview/pkg/source"
)

type failingSource struct{ err error }

func (s failingSource) Fetch(context.Context, string) (blueprint.Set, error) { return nil, s.err }
func (failingSource) Name() string                                           { return "failing" }
func (failingSource) Close() error                                           { return nil }

type countingSurface struct {
	vp    fit.Viewport
	draws int
	last  fit.Plan
}

func (s *countingSurface) Viewport() fit.Viewport { return s.vp }
func (s *countingSurface) Draw(p fit.Plan) {
	s.draws++
	s.last = p
}

func testSet() blueprint.Set {
	return blueprint.Set{
		{Author: "john", Name: "house", Points: []blueprint.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}},
		{Author: "john", Name: "line", Points: []blueprint.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}},
		{Author: "john", Name: "empty", Points: []blueprint.Point{}},
	}
}

func TestSearch(t *testing.T) {
	v := New(source.NewStatic(testSet()), WithAuthor("john"))
	if err := v.Search(context.Background()); err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if got := len(v.Blueprints()); got != 3 {
		t.Errorf("len(Blueprints()) = %d, want 3", got)
	}
	if got := v.TotalPoints(); got != 5 {
		t.Errorf("TotalPoints() = %d, want 5", got)
	}
	if got := v.Heading(); got != "john's blueprints:" {
		t.Errorf("Heading() = %q", got)
	}
}

func TestSearchClearsSelection(t *testing.T) {
	v := New(source.NewStatic(testSet()))
	ctx := context.Background()
	_ = v.Search(ctx)
	if err := v.Open("house"); err != nil {
		t.Fatal(err)
	}

	if err := v.Search(ctx); err != nil {
		t.Fatal(err)
	}
	if v.Selected() != nil || v.IsOpen() {
		t.Error("a successful search should clear the selection and close the drawing")
	}
}

func TestSearchFailureClearsResults(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	v := New(source.NewStatic(testSet()), WithLogger(logger))
	ctx := context.Background()
	_ = v.Search(ctx)

	v.src = failingSource{err: errors.New(errors.ErrCodeNetwork, "connection refused")}
	err := v.Search(ctx)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Fatalf("Search() error = %v, want NETWORK_ERROR", err)
	}
	if v.Blueprints() == nil || len(v.Blueprints()) != 0 {
		t.Errorf("Blueprints() = %#v, want empty set", v.Blueprints())
	}
	if v.TotalPoints() != 0 {
		t.Errorf("TotalPoints() = %d, want 0", v.TotalPoints())
	}
	if !strings.Contains(buf.String(), "connection refused") {
		t.Errorf("failure should be logged, log was %q", buf.String())
	}
}

func TestOpenClose(t *testing.T) {
	v := New(source.NewStatic(testSet()))
	_ = v.Search(context.Background())

	if err := v.Open("missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Open(missing) error = %v, want NOT_FOUND", err)
	}
	if v.IsOpen() {
		t.Error("failed Open should not open the drawing")
	}

	if err := v.Open("house"); err != nil {
		t.Fatal(err)
	}
	if !v.IsOpen() || v.Selected().Name != "house" {
		t.Errorf("Open(house): open=%v selected=%v", v.IsOpen(), v.Selected())
	}
	// Selection refers into the fetched set.
	if v.Selected() != &v.Blueprints()[0] {
		t.Error("selection should point into the current set")
	}

	v.Close()
	if v.IsOpen() {
		t.Error("Close() should hide the drawing")
	}
	if v.Selected() == nil {
		t.Error("Close() should keep the selection")
	}
}

func TestDraw(t *testing.T) {
	v := New(source.NewStatic(testSet()))
	_ = v.Search(context.Background())
	s := &countingSurface{vp: fit.DefaultViewport()}

	if v.Draw(s) {
		t.Error("Draw without selection should be a no-op")
	}

	_ = v.Open("house")
	if !v.Draw(s) {
		t.Fatal("Draw with selection should draw")
	}
	want := []fit.Marker{
		{X: 20, Y: 20, Kind: fit.Start},
		{X: 380, Y: 20, Kind: fit.Regular},
		{X: 380, Y: 380, Kind: fit.Regular},
	}
	for i, m := range want {
		if s.last.Markers[i] != m {
			t.Errorf("marker %d = %+v, want %+v", i, s.last.Markers[i], m)
		}
	}
}

func TestTriggersAreDebounced(t *testing.T) {
	v := New(source.NewStatic(testSet()))
	_ = v.Search(context.Background())
	s := &countingSurface{vp: fit.DefaultViewport()}

	_ = v.Open("house")
	v.SelectionChanged(s)
	v.SurfaceReady(s)
	if s.draws != 1 {
		t.Errorf("double trigger drew %d times, want 1", s.draws)
	}

	_ = v.Open("line")
	v.SelectionChanged(s)
	if s.draws != 2 {
		t.Errorf("new selection should redraw, draws = %d", s.draws)
	}

	s.vp = fit.Viewport{Width: 200, Height: 200, Margin: 10}
	v.SurfaceReady(s)
	if s.draws != 3 {
		t.Errorf("resized surface should redraw, draws = %d", s.draws)
	}

	v.Close()
	v.SurfaceReady(s)
	if s.draws != 3 {
		t.Error("closed drawing should not redraw")
	}

	_ = v.Open("line")
	v.SurfaceReady(s)
	if s.draws != 4 {
		t.Errorf("reopening should redraw, draws = %d", s.draws)
	}

	accepted, dropped := v.Debouncer().Stats()
	if accepted != 4 || dropped != 1 {
		t.Errorf("Stats() = %d accepted, %d dropped; want 4, 1", accepted, dropped)
	}
}

// sliceSurface is a value surface whose dynamic type is not comparable.
type sliceSurface struct {
	vp    fit.Viewport
	plans []fit.Plan
	draws *int
}

func (s sliceSurface) Viewport() fit.Viewport { return s.vp }
func (s sliceSurface) Draw(fit.Plan)          { *s.draws++ }

func TestTriggersOnUncomparableSurface(t *testing.T) {
	v := New(source.NewStatic(testSet()))
	_ = v.Search(context.Background())
	_ = v.Open("house")

	var draws int
	s := sliceSurface{vp: fit.DefaultViewport(), plans: []fit.Plan{}, draws: &draws}
	if !v.SelectionChanged(s) || !v.SurfaceReady(s) {
		t.Error("triggers on an uncomparable surface should redraw")
	}
	if draws != 2 {
		t.Errorf("draws = %d, want 2", draws)
	}

	// A comparable surface after it is still debounced.
	c := &countingSurface{vp: fit.DefaultViewport()}
	v.SelectionChanged(c)
	v.SurfaceReady(c)
	if c.draws != 1 {
		t.Errorf("comparable surface drew %d times, want 1", c.draws)
	}
}

func TestDebouncedOutputMatches(t *testing.T) {
	set := testSet()
	vp := fit.DefaultViewport()

	once := render.NewCanvas(vp)
	twice := render.NewCanvas(vp)

	v := New(source.NewStatic(set))
	_ = v.Search(context.Background())
	_ = v.Open("house")
	v.SelectionChanged(once)

	w := New(source.NewStatic(set))
	_ = w.Search(context.Background())
	_ = w.Open("house")
	w.Draw(twice)
	w.Draw(twice)

	var a, b bytes.Buffer
	if err := once.EncodePNG(&a); err != nil {
		t.Fatal(err)
	}
	if err := twice.EncodePNG(&b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("debounced drawing should match repeated drawing")
	}
}

func TestBrailleSurface(t *testing.T) {
	v := New(source.NewStatic(testSet()))
	_ = v.Search(context.Background())
	_ = v.Open("house")

	s := render.BrailleSurface{Braille: render.NewBraille(20, 10), VP: fit.DefaultViewport()}
	if !v.SurfaceReady(s) {
		t.Fatal("SurfaceReady should draw on a fresh surface")
	}
	if s.Kind(1, 0) != render.CellStart {
		t.Errorf("start marker missing:\n%s", s.String())
	}
}
