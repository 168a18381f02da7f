package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file, base path for several formats, or "-" for stdout
	formats string // comma-separated formats
	engine  string // layered or graphviz
	scale   float64
	quality int
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram to SVG, PNG, JPG, PDF, JSON or DOT",
		Long: `Render a diagram to one or more output formats.

The input is either diagram source or a layout file written by 'layout'
(or 'render -f json'). Use "-" to read from standard input.

With a single format, -o names the output file ("-" writes to stdout).
With several formats, -o is a base path and each file gets its format's
extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated)")
	cmd.Flags().StringVar(&opts.engine, "engine", pipeline.DefaultEngine, "layout engine: layered, graphviz")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "raster scale factor (default from config)")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100 (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.RegisterFlagCompletionFunc("engine", completeEngines)

	return cmd
}

func (c *CLI) pipelineOptions(source string, opts renderOpts) pipeline.Options {
	p := pipeline.Options{
		Source:      source,
		Formats:     pipeline.ParseFormats(opts.formats),
		Engine:      opts.engine,
		Scale:       c.cfg.Render.Scale,
		JPEGQuality: c.cfg.Render.JPEGQuality,
		Refresh:     opts.refresh,
	}
	if opts.scale > 0 {
		p.Scale = opts.scale
	}
	if opts.quality > 0 {
		p.JPEGQuality = opts.quality
	}
	return p
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	source, err := readSource(input, os.Stdin)
	if err != nil {
		return err
	}
	popts := c.pipelineOptions(source, opts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.output == stdinPath && len(popts.Formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(popts.Formats))
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	if opts.output != stdinPath {
		spinner.Start()
	}
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", displayName(input)))

	if opts.output == stdinPath {
		_, err := os.Stdout.Write(result.Artifacts[popts.Formats[0]])
		return err
	}

	paths := outputPaths(input, opts.output, popts.Formats)
	for _, f := range popts.Formats {
		if err := writeFile(paths[f], result.Artifacts[f]); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
		logger.Debug("wrote output", "format", f, "bytes", len(result.Artifacts[f]))
	}

	printSuccess("Render complete")
	for _, f := range popts.Formats {
		printFile(paths[f])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	return nil
}

// outputPaths maps each format to its output file.
func outputPaths(input, output string, formats []string) map[string]string {
	out := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		out[formats[0]] = output
		return out
	}
	base := basePath(output, input)
	for _, f := range formats {
		out[f] = base + "." + f
	}
	return out
}

// basePath derives the base output path. With no output it strips the
// extension from input; a known format extension is stripped from output.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinPath {
			return "diagram"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.ValidFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func displayName(input string) string {
	if input == stdinPath {
		return "stdin"
	}
	return filepath.Base(input)
}
