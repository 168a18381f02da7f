package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgraph/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute a diagram layout and write it as JSON",
		Long: `Compute a diagram layout and write it as JSON.

The layout file records every node's rank, order, position and size and
every edge's anchor points. 'render' accepts it in place of diagram
source, so a layout can be computed once and rendered many times.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool) error {
	source, err := readSource(input, os.Stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	result, err := runner.Execute(ctx, pipeline.Options{Source: source, Formats: []string{pipeline.FormatJSON}})
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		output = layoutPath(input)
	}
	if output == stdinPath {
		_, err := os.Stdout.Write(result.Artifacts[pipeline.FormatJSON])
		return err
	}
	if err := writeFile(output, result.Artifacts[pipeline.FormatJSON]); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	if s := result.Stats.Layout; s.Ranks > 0 {
		printDetail("%d ranks, %d virtual nodes, %d reversed edges, %d crossings", s.Ranks, s.VirtualNodes, s.Reversed, s.Crossings)
	}
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}

func layoutPath(input string) string {
	if input == stdinPath {
		return "diagram.layout.json"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}
