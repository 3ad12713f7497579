package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
	"github.com/1mgroot/Tracil-sub000/pkg/pipeline"
)

// renderCommand creates the render command, the lineage-to-artifact shortcut.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		noCache    bool
		formatsStr string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [lineage.json]",
		Short: "Render a lineage graph to output artifacts",
		Long: `Render a lineage graph to output artifacts.

The render command runs the local half of the pipeline in one step: it
sanitizes the graph, assigns provenance levels, computes a layout, and
writes the rendered artifacts. Use 'layout' and 'visualize' separately
when you want to inspect or reuse the intermediate layout.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", opts.Strategy, "layout strategy: rows (default), dot")
	cmd.Flags().BoolVar(&opts.EdgeLabels, "edge-labels", false, "include derivation labels on SVG edges")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "emit compact JSON without node metadata")

	return cmd
}

// runRender loads the graph and runs sanitize, layout, and render.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, "Rendering lineage...")
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", input, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.LevelCount, result.CacheInfo.RenderHit)
	return nil
}
