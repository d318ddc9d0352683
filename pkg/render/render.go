package render

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/fit"
	"github.com/matzehuels/bpview/pkg/observability"
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
	FormatPDF      = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatGraphviz: true,
	FormatPDF:      true,
}

// ValidateFormats checks that all requested formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %s (must be one of svg, png, json, dot, graphviz, pdf)", f)
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list. An empty string
// selects SVG.
func ParseFormats(s string) []string {
	if s == "" {
		return []string{FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	return parts
}

// Extension returns the file extension for format.
func Extension(format string) string {
	if format == FormatGraphviz {
		return "gv.svg"
	}
	return format
}

// ContentType returns the MIME type served for format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatGraphviz:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Render draws plan in the given format.
func Render(ctx context.Context, format string, plan fit.Plan, vp fit.Viewport, opts ...Option) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	data, err := renderFormat(ctx, format, plan, vp, opts...)

	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}

func renderFormat(ctx context.Context, format string, plan fit.Plan, vp fit.Viewport, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(plan, vp, opts...), nil
	case FormatPNG:
		return RenderPNG(plan, vp, opts...)
	case FormatJSON:
		return RenderJSON(plan, vp, opts...)
	case FormatDOT:
		return []byte(ToDOT(plan, vp, opts...)), nil
	case FormatGraphviz:
		return RenderDOTSVG(ctx, ToDOT(plan, vp, opts...))
	case FormatPDF:
		return ToPDF(ctx, RenderSVG(plan, vp, opts...))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
}
