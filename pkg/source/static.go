package source

import (
	"context"

	"github.com/matzehuels/bpview/pkg/blueprint"
)

// Static serves a fixed set. Fetch filters by author when one is given
// and the blueprints carry authors; blueprints without an author match
// every query.
type Static struct {
	set blueprint.Set
}

// NewStatic returns a source over set.
func NewStatic(set blueprint.Set) *Static {
	return &Static{set: set}
}

// FromFile reads a JSON or YAML blueprint file into a static source.
func FromFile(path string) (*Static, error) {
	set, err := blueprint.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewStatic(set), nil
}

func (s *Static) Fetch(ctx context.Context, author string) (blueprint.Set, error) {
	return observe(ctx, s.Name(), author, func() (blueprint.Set, error) {
		out := blueprint.Set{}
		for _, b := range s.set {
			if author == "" || b.Author == "" || b.Author == author {
				out = append(out, b)
			}
		}
		return out, nil
	})
}

func (s *Static) Name() string { return "static" }

func (s *Static) Close() error { return nil }
