// Package viewer holds the state of a blueprint browsing session: the
// author being searched, the fetched set, the selected blueprint and
// whether its drawing is open.
//
// The terminal browser and the HTTP viewer both drive a [Viewer]. A
// search that fails leaves the viewer with an empty set so the shell can
// keep running and show "no data"; the error is logged and returned.
//
// Drawing goes through two triggers, [Viewer.SelectionChanged] and
// [Viewer.SurfaceReady]. Both may fire for the same selection; the
// viewer's [Debouncer] drops the duplicate.
package viewer

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/fit"
	"github.com/matzehuels/bpview/pkg/source"
)

// Surface is anything a plan can be applied to. Draw must clear the
// surface before drawing.
type Surface interface {
	Viewport() fit.Viewport
	Draw(plan fit.Plan)
}

// Viewer is the browsing state. It is not safe for concurrent use; the
// HTTP viewer builds one per request.
type Viewer struct {
	src      source.Source
	logger   *log.Logger
	debounce *Debouncer

	author   string
	set      blueprint.Set
	selected *blueprint.Blueprint
	open     bool
}

// Option configures a [Viewer].
type Option func(*Viewer)

// WithLogger sets the logger used to report fetch failures.
func WithLogger(l *log.Logger) Option {
	return func(v *Viewer) { v.logger = l }
}

// WithAuthor sets the initial author.
func WithAuthor(author string) Option {
	return func(v *Viewer) { v.author = author }
}

// New creates a viewer reading from src.
func New(src source.Source, opts ...Option) *Viewer {
	v := &Viewer{
		src:      src,
		logger:   log.New(io.Discard),
		debounce: NewDebouncer(),
		set:      blueprint.Set{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Author returns the author the next search will query.
func (v *Viewer) Author() string { return v.author }

// SetAuthor changes the author. The current results stay until the next
// search.
func (v *Viewer) SetAuthor(author string) { v.author = author }

// Search fetches the blueprints of the current author. On success the set
// is replaced and the selection cleared. On failure the set becomes empty,
// the error is logged, and it is returned.
func (v *Viewer) Search(ctx context.Context) error {
	set, err := v.src.Fetch(ctx, v.author)
	v.selected, v.open = nil, false
	v.debounce.Reset()

	if err != nil {
		v.set = blueprint.Set{}
		v.logger.Error("fetch blueprints", "source", v.src.Name(), "author", v.author, "err", err)
		return err
	}

	v.set = set
	v.logger.Debug("fetched blueprints", "source", v.src.Name(), "author", v.author,
		"count", len(set), "points", set.TotalPoints())
	return nil
}

// Blueprints returns the current set.
func (v *Viewer) Blueprints() blueprint.Set { return v.set }

// TotalPoints sums the points of the current set.
func (v *Viewer) TotalPoints() int { return v.set.TotalPoints() }

// Heading returns the title shown above the result table.
func (v *Viewer) Heading() string {
	if v.author == "" {
		return "All blueprints:"
	}
	return fmt.Sprintf("%s's blueprints:", v.author)
}

// Open selects the blueprint named name and opens its drawing.
func (v *Viewer) Open(name string) error {
	b, ok := v.set.Find(name)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "blueprint %q not in current results", name)
	}
	if b != v.selected {
		v.debounce.Reset()
	}
	v.selected, v.open = b, true
	return nil
}

// Close hides the drawing. The selection is kept.
func (v *Viewer) Close() {
	v.open = false
	v.debounce.Reset()
}

// IsOpen reports whether the drawing is shown.
func (v *Viewer) IsOpen() bool { return v.open }

// Selected returns the selected blueprint, or nil.
func (v *Viewer) Selected() *blueprint.Blueprint { return v.selected }

// Plan fits the selected blueprint into vp. It reports false when nothing
// is selected.
func (v *Viewer) Plan(vp fit.Viewport) (fit.Plan, bool) {
	if v.selected == nil {
		return fit.Plan{}, false
	}
	return fit.Fit(v.selected.Points, vp), true
}

// Draw applies the selected blueprint's plan to s. It does nothing and
// reports false when nothing is selected.
func (v *Viewer) Draw(s Surface) bool {
	plan, ok := v.Plan(s.Viewport())
	if !ok {
		return false
	}
	s.Draw(plan)
	return true
}

// SelectionChanged redraws s after the selection changed.
func (v *Viewer) SelectionChanged(s Surface) bool { return v.trigger(s) }

// SurfaceReady redraws s once it can be drawn on.
func (v *Viewer) SurfaceReady(s Surface) bool { return v.trigger(s) }

// Debouncer exposes the redraw debouncer.
func (v *Viewer) Debouncer() *Debouncer { return v.debounce }

func (v *Viewer) trigger(s Surface) bool {
	if v.selected == nil || !v.open || s == nil {
		return false
	}
	if !v.debounce.Allow(s, v.selected) {
		return false
	}
	return v.Draw(s)
}
