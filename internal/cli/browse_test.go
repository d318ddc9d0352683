package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/fit"
	"github.com/matzehuels/bpview/pkg/render"
	"github.com/matzehuels/bpview/pkg/source"
)

func newTestBrowseModel(t *testing.T) BrowseModel {
	t.Helper()
	set, err := blueprint.ReadJSON(strings.NewReader(testBlueprints))
	if err != nil {
		t.Fatal(err)
	}
	return NewBrowseModel(context.Background(), source.NewStatic(set), fit.DefaultViewport(), log.New(io.Discard))
}

func update(t *testing.T, m BrowseModel, msg tea.Msg) (BrowseModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(BrowseModel), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// search types author and runs the fetch command to completion.
func search(t *testing.T, m BrowseModel, author string) BrowseModel {
	t.Helper()
	m, _ = update(t, m, key(author))
	m, cmd := update(t, m, key("enter"))
	if !m.Loading || cmd == nil {
		t.Fatalf("enter should start a fetch (loading=%v)", m.Loading)
	}
	m, _ = update(t, m, cmd())
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestBrowseSearch(t *testing.T) {
	m := search(t, newTestBrowseModel(t), "john")

	if m.Loading || m.Editing || m.Err != nil {
		t.Fatalf("after search: loading=%v editing=%v err=%v", m.Loading, m.Editing, m.Err)
	}
	if got := len(m.Viewer().Blueprints()); got != 2 {
		t.Fatalf("blueprints = %d, want 2", got)
	}

	view := m.View()
	for _, want := range []string{"john's blueprints:", "house", "line", "Total user points: 5", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBrowseInputEditing(t *testing.T) {
	m := newTestBrowseModel(t)
	m, _ = update(t, m, key("jo"))
	m, _ = update(t, m, key("x"))
	m, _ = update(t, m, key("backspace"))
	if m.Input != "jo" {
		t.Errorf("Input = %q, want %q", m.Input, "jo")
	}

	// q is text while editing.
	m, cmd := update(t, m, key("q"))
	if isQuit(cmd) || m.Input != "joq" {
		t.Errorf("q while editing: quit=%v input=%q", isQuit(cmd), m.Input)
	}
}

func TestBrowseSearchError(t *testing.T) {
	src, err := source.NewHTTPSource("http://127.0.0.1:1")
	if err != nil {
		t.Fatal(err)
	}
	m := NewBrowseModel(context.Background(), src, fit.DefaultViewport(), log.New(io.Discard))

	m = search(t, m, "..")
	if m.Loading || !m.Editing || !errors.Is(m.Err, errors.ErrCodeInvalidName) {
		t.Fatalf("after failed search: loading=%v editing=%v err=%v", m.Loading, m.Editing, m.Err)
	}
	if !strings.Contains(m.View(), "cannot be") {
		t.Errorf("view should show the error:\n%s", m.View())
	}
}

func TestBrowseAuthorWithDots(t *testing.T) {
	set := blueprint.Set{{Author: "A..B", Name: "ladder", Points: []blueprint.Point{{X: 0, Y: 0}, {X: 0, Y: 4}}}}
	m := NewBrowseModel(context.Background(), source.NewStatic(set), fit.DefaultViewport(), log.New(io.Discard))

	m = search(t, m, "A..B")
	if m.Err != nil || len(m.Viewer().Blueprints()) != 1 {
		t.Fatalf("search A..B: err=%v blueprints=%d", m.Err, len(m.Viewer().Blueprints()))
	}
}

func TestBrowseKeysIgnoredWhileLoading(t *testing.T) {
	m := newTestBrowseModel(t)
	m, _ = update(t, m, key("john"))
	m, _ = update(t, m, key("enter"))

	m, cmd := update(t, m, key("x"))
	if cmd != nil || m.Input != "john" {
		t.Errorf("keys should be ignored while loading (input=%q)", m.Input)
	}
	if !strings.Contains(m.View(), "Fetching blueprints...") {
		t.Errorf("view should show loading state:\n%s", m.View())
	}
}

func TestBrowseNavigation(t *testing.T) {
	m := search(t, newTestBrowseModel(t), "")
	if got := len(m.Viewer().Blueprints()); got != 3 {
		t.Fatalf("blueprints = %d, want 3", got)
	}

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("j"))
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped)", m.Cursor)
	}
	m, _ = update(t, m, key("k"))
	m, _ = update(t, m, key("up"))
	m, _ = update(t, m, key("up"))
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 (clamped)", m.Cursor)
	}
}

func TestBrowseScrolling(t *testing.T) {
	m := search(t, newTestBrowseModel(t), "")
	m.Height = 2

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}
	m, _ = update(t, m, key("up"))
	m, _ = update(t, m, key("up"))
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0", m.Offset)
	}
}

func TestBrowseOpenAndClose(t *testing.T) {
	m := search(t, newTestBrowseModel(t), "john")

	m, _ = update(t, m, key("enter"))
	v := m.Viewer()
	if !v.IsOpen() || v.Selected().Name != "house" {
		t.Fatalf("enter should open house (open=%v)", v.IsOpen())
	}
	if accepted, _ := v.Debouncer().Stats(); accepted != 1 {
		t.Errorf("accepted redraws = %d, want 1", accepted)
	}

	view := m.View()
	if !strings.Contains(view, "house") || !strings.Contains(view, "3 points") {
		t.Errorf("modal view missing title:\n%s", view)
	}

	var start, markers int
	cols, rows := m.surface.Size()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			switch m.surface.Kind(c, r) {
			case render.CellStart:
				start++
			case render.CellMarker:
				markers++
			}
		}
	}
	if start != 1 || markers != 2 {
		t.Errorf("drawing has %d start and %d marker cells, want 1 and 2", start, markers)
	}

	m, cmd := update(t, m, key("esc"))
	if isQuit(cmd) || v.IsOpen() {
		t.Errorf("esc should close the modal, not quit")
	}
	if v.Selected() == nil || v.Selected().Name != "house" {
		t.Errorf("closing should keep the selection")
	}
	if !strings.Contains(m.View(), "john's blueprints:") {
		t.Errorf("table should be visible again:\n%s", m.View())
	}
}

func TestBrowseResizeRedraws(t *testing.T) {
	m := search(t, newTestBrowseModel(t), "john")
	m, _ = update(t, m, key("enter"))

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 20})
	if _, rows := m.surface.Size(); rows != 14 {
		t.Errorf("surface rows = %d, want 14", rows)
	}
	if m.Height != 8 {
		t.Errorf("Height = %d, want 8", m.Height)
	}
	if accepted, _ := m.Viewer().Debouncer().Stats(); accepted != 2 {
		t.Errorf("accepted redraws = %d, want 2 after resize", accepted)
	}

	// Same size again: no new surface, no redraw.
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
	if accepted, _ := m.Viewer().Debouncer().Stats(); accepted != 2 {
		t.Errorf("accepted redraws = %d, want 2", accepted)
	}
}

func TestBrowseQuit(t *testing.T) {
	m := search(t, newTestBrowseModel(t), "john")

	if _, cmd := update(t, m, key("q")); !isQuit(cmd) {
		t.Error("q should quit from the table")
	}
	if _, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC}); !isQuit(cmd) {
		t.Error("ctrl+c should quit")
	}
	if _, cmd := update(t, newTestBrowseModel(t), key("esc")); !isQuit(cmd) {
		t.Error("esc should quit from the input")
	}
}

func TestBrowseBackToInput(t *testing.T) {
	m := search(t, newTestBrowseModel(t), "john")
	m, _ = update(t, m, key("/"))
	if !m.Editing {
		t.Error("/ should focus the author input")
	}
	m, _ = update(t, m, key("tab"))
	if m.Editing {
		t.Error("tab should return to the table")
	}
}

func TestBrowseAutoSearch(t *testing.T) {
	m := newTestBrowseModel(t)
	m.Input = "jane"
	m.autoSearch = true

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init should start a search")
	}
	m, cmd = update(t, m, cmd())
	m, _ = update(t, m, cmd())
	if got := m.Viewer().Blueprints(); len(got) != 1 || got[0].Name != "boat" {
		t.Errorf("blueprints = %+v, want [boat]", got)
	}
}

func TestNewBrailleSurfaceAspect(t *testing.T) {
	s := newBrailleSurface(10, fit.Viewport{Width: 800, Height: 400, Margin: 20})
	if cols, rows := s.Size(); cols != 40 || rows != 10 {
		t.Errorf("size = %dx%d, want 40x10", cols, rows)
	}
}
