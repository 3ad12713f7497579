package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/1mgroot/Tracil-sub000/pkg/cache"
	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/httputil"
	"github.com/1mgroot/Tracil-sub000/pkg/pipeline"
	"github.com/1mgroot/Tracil-sub000/pkg/store"
	"github.com/1mgroot/Tracil-sub000/pkg/upstream"
)

// timeRounding trims displayed durations to a readable precision.
const timeRounding = 10 * time.Millisecond

// analyzeCommand creates the analyze command, the full trace-to-diagram
// pipeline for a single variable.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		backend    string
		strict     bool
		noCache    bool
		output     string
		formatsStr string
		save       bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "analyze DATASET.VARIABLE",
		Short: "Trace a variable's lineage and render it",
		Long: `Trace a variable's lineage and render it.

The analyze command asks the inference backend where a variable came from,
then sanitizes the resulting graph, assigns provenance levels, computes a
layout, and writes the rendered artifacts.

Results are cached locally, so repeating a query is fast. Use --refresh to
force a new inference run.

Examples:
  tracil analyze ADSL.AGE
  tracil analyze sdtm.DM.BRTHDTC -f svg,json
  tracil analyze ADSL.TRTSDT --strategy dot -o trtsdt.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, variable, err := splitQuery(args[0])
			if err != nil {
				return err
			}
			opts.Dataset = dataset
			opts.Variable = variable
			opts.Backend = backend
			opts.Formats = parseFormats(formatsStr)
			return c.runAnalyze(cmd.Context(), opts, output, strict, noCache, save)
		},
	}

	// Backend flags
	cmd.Flags().StringVarP(&backend, "backend", "b", defaultBackendURL, "lineage inference service URL")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail instead of degrading when the backend is unavailable")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the graph cache and re-run inference")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Output flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "layout strategy: rows (default), dot")
	cmd.Flags().BoolVar(&opts.EdgeLabels, "edge-labels", false, "include derivation labels on SVG edges")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "emit compact JSON without node metadata")
	cmd.Flags().BoolVar(&save, "save", false, "also write a snapshot document (graph + layout + id)")

	return cmd
}

// runAnalyze runs the full pipeline against the inference backend.
func (c *CLI) runAnalyze(ctx context.Context, opts pipeline.Options, output string, strict, noCache, save bool) error {
	if err := opts.ValidateForAnalyze(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	client, err := c.newUpstreamClient(opts.Backend, strict, noCache)
	if err != nil {
		return err
	}

	opts.Logger = c.Logger
	query := opts.Dataset + "." + opts.Variable

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Analyzing %s...", query))
	spinner.Start()

	result, err := runner.Analyze(ctx, client, opts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return fmt.Errorf("analyze %s: %w", query, err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Traced %s (%s)", query, result.Stats.AnalyzeTime.Round(timeRounding)))

	for _, gap := range result.Graph.Gaps {
		printGap(gap)
	}

	fallback := strings.ToLower(opts.Dataset + "_" + opts.Variable)
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    output,
		fallback:  fallback,
	})
	if err != nil {
		return err
	}
	for _, path := range paths {
		printFile(path)
	}

	if save {
		snap := store.NewSnapshot(opts.Dataset, opts.Variable, result.Graph, &result.Layout)
		snapPath := basePath(output, "", fallback) + ".snapshot.json"
		if err := store.WriteSnapshotFile(snap, snapPath); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "failed to write snapshot")
		}
		printFile(snapPath)
	}

	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.LevelCount, result.CacheInfo.GraphHit)
	if !hasFormat(opts.Formats, pipeline.FormatSVG) {
		// Every stage is now cached, so re-rendering is cheap.
		printNextStep("Render a diagram", fmt.Sprintf("tracil analyze %s -f svg", query))
	}
	return nil
}

func hasFormat(formats []string, want string) bool {
	for _, f := range formats {
		if f == want {
			return true
		}
	}
	return false
}

// newUpstreamClient builds the inference backend client with the CLI's
// logger and the on-disk HTTP cache.
func (c *CLI) newUpstreamClient(backend string, strict, noCache bool) (*upstream.Client, error) {
	clientOpts := []upstream.Option{upstream.WithLogger(c.Logger)}
	if strict {
		clientOpts = append(clientOpts, upstream.WithStrict())
	}
	if !noCache {
		dir, _ := cacheDir()
		if hc, err := httputil.NewCache(dir, cache.TTLHTTP); err == nil {
			clientOpts = append(clientOpts, upstream.WithCache(hc))
		}
	}
	return upstream.NewClient(backend, clientOpts...)
}
