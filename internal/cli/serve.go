package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bpview/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		input string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blueprint viewer over HTTP",
		Example: `  bpview serve
  bpview serve --addr :8000 --source-url http://blueprints.internal:8080
  bpview serve --input testdata/blueprints.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			src, err := c.openSource(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}
			defer src.Close()

			srv := server.New(src,
				server.WithLogger(c.Logger),
				server.WithViewport(cfg.FitViewport()),
			)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :3000)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "serve blueprints from a JSON or YAML file instead of the source")

	return cmd
}
