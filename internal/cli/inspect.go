package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgraph/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse node ranks, orders and positions",
		Long: `Compute the layout of a diagram (or read a layout file) and browse
the nodes in a table. Implicit nodes, created only by edge endpoints, are
shown dimmed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the table instead of starting the interactive view")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, plain bool) error {
	source, err := readSource(input, os.Stdin)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, pipeline.Options{Source: source, Formats: []string{pipeline.FormatJSON}})
	if err != nil {
		return err
	}

	model := NewInspectModel(displayName(input), result.Diagram)
	if plain || !isTerminal(os.Stdout) {
		fmt.Println(model.Static())
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
		return nil
	}
	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
