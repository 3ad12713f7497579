package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
	"github.com/1mgroot/Tracil-sub000/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [lineage.json]",
		Short: "Compute a diagram layout from a lineage graph",
		Long: `Compute a diagram layout from a lineage graph.

The layout command takes a lineage.json file (produced by 'analyze' or by
the inference backend directly), sanitizes it, assigns provenance levels,
and computes node positions and edge routes. The output is a layout.json
file that 'visualize' can render.

Results are cached locally for faster subsequent runs.

Use 'render' as a shortcut to go directly from lineage.json to artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVar(&opts.Strategy, "strategy", opts.Strategy, "layout strategy: rows (default), dot")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := lineage.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load lineage %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	clean, levels := runner.Prepare(g, opts)

	strategy := opts.Strategy
	if strategy == "" {
		strategy = layout.StrategyRows
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", strategy))
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, clean, levels, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := layout.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(clean.Nodes), len(clean.Edges), len(l.Levels), cacheHit)
	printNewline()
	printNextStep("Render", "tracil visualize "+outputPath)

	return nil
}
