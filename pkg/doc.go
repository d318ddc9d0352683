// Package pkg provides the core libraries of bpview, a viewer for
// blueprints: named polylines fetched per author from a blueprint service.
//
// # Overview
//
// The pkg directory is organized by concern:
//
//  1. [blueprint] - the data model and its JSON/YAML encodings
//  2. [source] - blueprint backends (HTTP service, MongoDB, PostgreSQL, static)
//  3. [cache] - response caches for sources (file, Redis, null)
//  4. [fit] - the viewport transform from blueprint space to drawing space
//  5. [render] - drawing surfaces (SVG, PNG, braille, DOT, JSON, PDF)
//  6. [viewer] - search, selection and debounced redraws shared by the UIs
//
// Supporting packages: [errors] for coded errors, [observability] for
// fetch, cache and render hooks, and [buildinfo] for version metadata.
//
// # Architecture
//
// The data flow through bpview:
//
//	Blueprint service / database / file
//	         ↓
//	    [source] package (fetch an author's blueprints)
//	         ↓
//	    [viewer] package (select one, debounce redraws)
//	         ↓
//	    [fit] package (scale and translate into the viewport)
//	         ↓
//	    [render] package (SVG/PNG/braille/DOT/JSON/PDF)
//
// # Quick Start
//
//	src, err := source.NewHTTPSource("http://localhost:8080")
//	if err != nil {
//	    return err
//	}
//	v := viewer.New(src, viewer.WithAuthor("john"))
//	if err := v.Search(ctx); err != nil {
//	    return err
//	}
//	if err := v.Open("house"); err != nil {
//	    return err
//	}
//	canvas := render.NewCanvas(fit.DefaultViewport())
//	v.SelectionChanged(canvas)
//
// The command-line tool, terminal browser and HTTP viewer live under
// internal/ and cmd/bpview.
package pkg
