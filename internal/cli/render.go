package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/fit"
	"github.com/matzehuels/bpview/pkg/render"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	author  string
	input   string
	output  string   // file path, base path for several formats, or "-" for stdout
	formats []string // svg, png, json, dot, graphviz, pdf
	refresh bool

	width, height, margin float64
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:  fit.DefaultWidth,
		height: fit.DefaultHeight,
		margin: fit.DefaultMargin,
	}

	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Draw a blueprint to SVG, PNG, JSON, DOT or PDF",
		Example: `  bpview render house --author john
  bpview render house --input blueprints.json -f svg,png -o out/house
  bpview render house --author john -f json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = render.ParseFormats(formatsStr)
			if err := render.ValidateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			// Flags win over the configured viewport only when given.
			vp := cfg.FitViewport()
			if cmd.Flags().Changed("width") {
				vp.Width = opts.width
			}
			if cmd.Flags().Changed("height") {
				vp.Height = opts.height
			}
			if cmd.Flags().Changed("margin") {
				vp.Margin = opts.margin
			}

			src, err := c.openSource(cmd.Context(), cfg, opts.input)
			if err != nil {
				return err
			}
			defer src.Close()

			set, err := fetch(cmd.Context(), src, opts.author, opts.refresh)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), set, args[0], vp, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.author, "author", "a", "", "author owning the blueprint (all authors when omitted)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read blueprints from a JSON or YAML file instead of the source")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several formats) or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot, graphviz, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "viewport margin")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the response cache")

	return cmd
}

// runRender fits the blueprint named name from set and writes one artifact
// per requested format.
func (c *CLI) runRender(ctx context.Context, w io.Writer, set blueprint.Set, name string, vp fit.Viewport, opts renderOpts) error {
	if err := errors.ValidateBlueprintName(name); err != nil {
		return err
	}
	bp, ok := set.Find(name)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "blueprint %q not found", name)
	}
	plan, err := fit.FitChecked(bp.Points, vp)
	if err != nil {
		return err
	}
	if len(opts.formats) == 0 {
		opts.formats = []string{render.FormatSVG}
	}
	if opts.output == "-" && len(opts.formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(opts.formats))
	}

	logger := c.logger(ctx)
	prog := newProgress(logger)
	for _, format := range opts.formats {
		data, err := render.Render(ctx, format, plan, vp, render.WithTitle(bp.Name))
		if err != nil {
			return err
		}
		if opts.output == "-" {
			_, err := w.Write(data)
			return err
		}
		path := outputPath(opts.output, bp.Name, format, len(opts.formats) > 1)
		if err := writeFile(path, data); err != nil {
			return err
		}
		logger.Debug("wrote output", "format", format, "path", path, "bytes", len(data))
		printFile(w, path)
	}
	printKeyValue(w, "Blueprint", bp.Name)
	printKeyValue(w, "Points", strconv.Itoa(bp.Len()))
	printKeyValue(w, "Viewport", fmt.Sprintf("%gx%g margin %g", vp.Width, vp.Height, vp.Margin))
	prog.done(fmt.Sprintf("Rendered %s (%d points)", bp.Name, bp.Len()))
	return nil
}

// outputPath resolves where a format is written. Without an output flag the
// blueprint name is the base; with several formats the flag is a base path.
func outputPath(output, name, format string, multi bool) string {
	ext := "." + render.Extension(format)
	if output == "" {
		return name + ext
	}
	if multi {
		return strings.TrimSuffix(output, filepath.Ext(output)) + ext
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
