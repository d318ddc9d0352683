// Package blueprint defines the blueprint data model: a named, ordered
// sequence of 2D points drawn as a polyline.
//
// Blueprints are read-only projections of records held by a blueprint
// source. A fetch produces a [Set]; selecting a blueprint for rendering
// refers to an element of that set rather than copying it.
//
// Point order is drawing order. A blueprint with zero points is valid but
// renders nothing.
package blueprint

import "slices"

// Point is a 2D coordinate in blueprint space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Blueprint is a named polyline owned by an author.
type Blueprint struct {
	Author string  `json:"author,omitempty" yaml:"author,omitempty"`
	Name   string  `json:"name" yaml:"name"`
	Points []Point `json:"points" yaml:"points"`
}

// Len returns the number of points in the blueprint.
func (b *Blueprint) Len() int { return len(b.Points) }

// Renderable reports whether the blueprint has at least one point.
func (b *Blueprint) Renderable() bool { return len(b.Points) > 0 }

// Set is the result of one fetch, in the order the source returned it.
type Set []Blueprint

// TotalPoints returns the number of points across all blueprints.
func (s Set) TotalPoints() int {
	total := 0
	for i := range s {
		total += len(s[i].Points)
	}
	return total
}

// Find returns the blueprint named name. The returned pointer refers into
// the set, so the caller sees the fetched record and not a copy.
func (s Set) Find(name string) (*Blueprint, bool) {
	i := slices.IndexFunc(s, func(b Blueprint) bool { return b.Name == name })
	if i < 0 {
		return nil, false
	}
	return &s[i], true
}

// Names returns the blueprint names in set order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i := range s {
		names[i] = s[i].Name
	}
	return names
}
