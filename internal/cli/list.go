package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpview/pkg/blueprint"
)

type listOpts struct {
	input   string
	refresh bool
	json    bool
	yaml    bool
}

// listCommand creates the list command: an author's blueprints as a table
// followed by the total point count.
func (c *CLI) listCommand() *cobra.Command {
	var opts listOpts

	cmd := &cobra.Command{
		Use:   "list [author]",
		Short: "List an author's blueprints (all authors when omitted)",
		Example: `  bpview list john
  bpview list --input blueprints.yaml
  bpview list john --json
  bpview list john --yaml > john.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var author string
			if len(args) == 1 {
				author = args[0]
			}
			return c.runList(cmd.Context(), cmd.OutOrStdout(), author, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read blueprints from a JSON or YAML file instead of the source")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the response cache")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the blueprints as JSON")
	cmd.Flags().BoolVar(&opts.yaml, "yaml", false, "print the blueprints as YAML (readable by --input)")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}

func (c *CLI) runList(ctx context.Context, w io.Writer, author string, opts listOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	src, err := c.openSource(ctx, cfg, opts.input)
	if err != nil {
		return err
	}
	defer src.Close()

	prog := newProgress(c.logger(ctx))
	spin := newSpinner(ctx, c.status, "Fetching blueprints...")
	spin.Start()
	set, err := fetch(ctx, src, author, opts.refresh)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Fetched %d blueprints from %s", len(set), src.Name()))

	switch {
	case opts.json:
		return blueprint.WriteJSON(w, set)
	case opts.yaml:
		return blueprint.WriteYAML(w, set)
	}
	printBlueprints(w, author, set)
	if len(set) > 0 {
		printNextStep(w, "Draw one", renderHint(author, set[0].Name))
	}
	return nil
}

// renderHint returns the render command for a listed blueprint.
func renderHint(author, name string) string {
	if author == "" {
		return "bpview render " + name
	}
	return "bpview render " + name + " --author " + author
}

// printBlueprints prints the heading, table and total for set.
func printBlueprints(w io.Writer, author string, set blueprint.Set) {
	fmt.Fprintln(w, StyleTitle.Render(heading(author)))
	if len(set) == 0 {
		printInfo(w, "No blueprints found")
	} else {
		fmt.Fprintln(w, blueprintTable(set, 0, len(set), -1))
	}
	fmt.Fprintln(w, totalLine(set.TotalPoints()))
}
