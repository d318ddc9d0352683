package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/fit"
	"github.com/matzehuels/bpview/pkg/render"
	"github.com/matzehuels/bpview/pkg/viewer"
)

// allAuthors stands for the empty author in path routes.
const allAuthors = "_"

// renderFormats are the formats served under /render. PDF and the
// Graphviz layout need external tools and stay CLI-only.
var renderFormats = map[string]bool{
	render.FormatSVG:  true,
	render.FormatPNG:  true,
	render.FormatJSON: true,
	render.FormatDOT:  true,
}

type healthData struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Source  string `json:"source"`
}

type listData struct {
	Author      string        `json:"author"`
	Blueprints  blueprint.Set `json:"blueprints"`
	TotalPoints int           `json:"total_points"`
}

type planData struct {
	Name     string       `json:"name"`
	Viewport fit.Viewport `json:"viewport"`
	Plan     fit.Plan     `json:"plan"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.success(w, r, healthData{Status: "ok", Version: s.version, Source: s.src.Name()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	v := s.newViewer(authorParam(r))
	if err := v.Search(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, listData{
		Author:      v.Author(),
		Blueprints:  v.Blueprints(),
		TotalPoints: v.TotalPoints(),
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	vp, err := s.viewportFromQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.openBlueprint(r, authorParam(r), pathParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	plan, _ := v.Plan(vp)
	s.success(w, r, planData{Name: v.Selected().Name, Viewport: vp, Plan: plan})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	file := pathParam(r, "file")
	dot := strings.LastIndexByte(file, '.')
	if dot <= 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidFormat, "missing format extension in %q", file))
		return
	}
	name, format := file[:dot], strings.ToLower(file[dot+1:])
	if !renderFormats[format] {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported format %q (must be one of svg, png, json, dot)", format))
		return
	}

	vp, err := s.viewportFromQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.openBlueprint(r, authorParam(r), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	plan, _ := v.Plan(vp)
	data, err := render.Render(r.Context(), format, plan, vp, render.WithTitle(name))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) newViewer(author string) *viewer.Viewer {
	return viewer.New(s.src, viewer.WithLogger(s.logger), viewer.WithAuthor(author))
}

// openBlueprint fetches author's set and selects name in it.
func (s *Server) openBlueprint(r *http.Request, author, name string) (*viewer.Viewer, error) {
	if err := errors.ValidateBlueprintName(name); err != nil {
		return nil, err
	}
	v := s.newViewer(author)
	if err := v.Search(r.Context()); err != nil {
		return nil, err
	}
	if err := v.Open(name); err != nil {
		return nil, err
	}
	return v, nil
}

// viewportFromQuery overrides the server viewport with width, height and
// margin query parameters and validates the result.
func (s *Server) viewportFromQuery(q url.Values) (fit.Viewport, error) {
	vp := s.viewport
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"width", &vp.Width},
		{"height", &vp.Height},
		{"margin", &vp.Margin},
	} {
		raw := q.Get(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return vp, errors.New(errors.ErrCodeInvalidViewport, "%s must be a number, got %q", f.key, raw)
		}
		*f.dst = v
	}
	return vp, vp.Validate()
}

func authorParam(r *http.Request) string {
	a := pathParam(r, "author")
	if a == allAuthors {
		return ""
	}
	return a
}

// pathParam returns the decoded URL parameter key. chi matches on the raw
// path when the request path contains escaped separators.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
