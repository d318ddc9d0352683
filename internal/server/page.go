package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/render"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html.tmpl").Funcs(template.FuncMap{
	"openURL":  openURL,
	"closeURL": closeURL,
}).ParseFS(templateFS, "templates/index.html.tmpl"))

type pageData struct {
	Author      string
	Searched    bool
	Heading     string
	Blueprints  blueprint.Set
	TotalPoints int
	Error       string

	Open    *blueprint.Blueprint
	Drawing template.HTML

	Version string
}

// handleIndex renders the browser page. The author query parameter runs a
// search; open additionally shows the named blueprint in a modal.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	author := q.Get("author")
	data := pageData{
		Author:  author,
		Version: s.version,
	}
	status := http.StatusOK

	if q.Has("author") {
		v := s.newViewer(author)
		data.Searched = true
		data.Heading = v.Heading()

		err := v.Search(r.Context())
		if err == nil {
			if name := q.Get("open"); name != "" {
				err = v.Open(name)
			}
		}
		if err != nil {
			status = statusFor(err)
			data.Error = errors.UserMessage(err)
		}

		data.Blueprints = v.Blueprints()
		data.TotalPoints = v.TotalPoints()

		if v.IsOpen() {
			plan, _ := v.Plan(s.viewport)
			data.Open = v.Selected()
			data.Drawing = template.HTML(render.RenderSVG(plan, s.viewport, render.WithTitle(data.Open.Name)))
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func openURL(author, name string) string {
	return "/?" + url.Values{"author": {author}, "open": {name}}.Encode()
}

func closeURL(author string) string {
	return "/?" + url.Values{"author": {author}}.Encode()
}
