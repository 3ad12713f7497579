package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
	"github.com/1mgroot/Tracil-sub000/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		graphPath  string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render artifacts from a computed layout",
		Long: `Render artifacts from a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to SVG or JSON. The layout contains all positioning information,
so this step is purely about rendering.

DOT output works from the source lineage rather than the layout; pass the
original lineage.json via --graph to enable it. The same flag enriches the
JSON artifact with node metadata and gaps.

Results are cached locally for faster subsequent runs.

Use 'render' as a shortcut to go directly from lineage.json to artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			return c.runVisualize(cmd.Context(), args[0], graphPath, opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, dot (comma-separated)")
	cmd.Flags().StringVar(&graphPath, "graph", "", "source lineage.json (required for dot, enriches json)")
	cmd.Flags().BoolVar(&opts.EdgeLabels, "edge-labels", false, "include derivation labels on SVG edges")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "emit compact JSON without node metadata")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input, graphPath string, opts pipeline.Options, output string, noCache bool) error {
	l, err := layout.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	var g lineage.Graph
	if graphPath != "" {
		g, err = lineage.ReadGraphFile(graphPath)
		if err != nil {
			return fmt.Errorf("load lineage %s: %w", graphPath, err)
		}
	} else if hasFormat(opts.Formats, pipeline.FormatDOT) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"dot output needs the source lineage; pass it with --graph")
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if opts.Strategy == "" {
		opts.Strategy = l.Strategy
	}

	spinner := newSpinnerWithContext(ctx, "Rendering layout...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, g, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Visualization complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(len(l.Nodes), len(l.Edges), len(l.Levels), cacheHit)
	return nil
}
