package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bpview/internal/config"
	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/buildinfo"
	"github.com/matzehuels/bpview/pkg/source"
)

// appName is the application name used for display.
const appName = "bpview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// status receives spinners and other transient output.
	status io.Writer

	configPath string
	sourceURL  string
	sourceKind string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "bpview browses and draws blueprints",
		Long: `bpview fetches an author's blueprints from a blueprint service and draws
them as polylines fitted into a fixed viewport. It can list blueprints, render
them to SVG, PNG, JSON, DOT or PDF, browse them in the terminal, or serve a
small web viewer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bpview/config.toml)")
	pf.StringVar(&c.sourceURL, "source-url", "", "blueprint service base URL (overrides config)")
	pf.StringVar(&c.sourceKind, "source", "", "blueprint source: http, mongo, postgres (overrides config)")

	root.AddCommand(c.listCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment, then applies the
// persistent flag overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.sourceKind != "" {
		cfg.Source.Kind = c.sourceKind
	}
	if c.sourceURL != "" {
		cfg.Source.URL = c.sourceURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSource returns a static source over input when given, otherwise the
// configured backend with its response cache.
func (c *CLI) openSource(ctx context.Context, cfg *config.Config, input string) (source.Source, error) {
	if input != "" {
		set, err := blueprint.ReadFile(input)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded blueprints", "file", input, "count", len(set))
		return source.NewStatic(set), nil
	}

	respCache, err := cfg.OpenCache(ctx)
	if err != nil {
		return nil, err
	}
	src, err := source.Open(ctx, cfg.SourceConfig(respCache))
	if err != nil {
		_ = respCache.Close()
		return nil, err
	}
	c.Logger.Debug("opened source", "kind", src.Name(), "url", cfg.Source.URL, "cache_ttl", cfg.Cache.TTL)
	return src, nil
}

// refresher is implemented by sources with a bypassable cache.
type refresher interface {
	Refresh(ctx context.Context, author string) (blueprint.Set, error)
}

// fetch fetches author's blueprints, bypassing the cache when refresh is set
// and the source supports it.
func fetch(ctx context.Context, src source.Source, author string, refresh bool) (blueprint.Set, error) {
	if r, ok := src.(refresher); ok && refresh {
		return r.Refresh(ctx, author)
	}
	return src.Fetch(ctx, author)
}
