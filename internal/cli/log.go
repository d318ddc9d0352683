// Package cli implements the bpview command-line interface.
//
// Commands:
//   - list: print an author's blueprints and their total point count
//   - render: draw one blueprint to SVG, PNG, JSON, DOT, Graphviz SVG or PDF
//   - browse: interactive terminal browser with a braille drawing modal
//   - serve: HTTP viewer
//   - cache: manage the response cache
//
// All commands accept --verbose (-v) for debug logging. The logger is
// carried on the [CLI] and attached to each command's context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Fetched 3 blueprints (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// logger returns the logger attached to ctx, or the CLI's own when commands
// run without the root command's pre-run.
func (c *CLI) logger(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return c.Logger
}
