package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		log   func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("fetched") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("fetched") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("fetched") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output: %q", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Rendered house")

	got := buf.String()
	if !strings.Contains(got, "Rendered house (") || !strings.Contains(got, "s)") {
		t.Errorf("done() = %q, want message with elapsed time", got)
	}
}

func TestCLILogger(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	if c.logger(context.Background()) != c.Logger {
		t.Error("a context without a logger should yield the CLI logger")
	}

	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if c.logger(withLogger(context.Background(), custom)) != custom {
		t.Error("logger should prefer the one attached to the context")
	}
}
