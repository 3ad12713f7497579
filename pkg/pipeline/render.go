package pipeline

import (
	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/layout/sink"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// renderArtifacts generates output artifacts in the requested formats.
func renderArtifacts(l layout.Layout, g lineage.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = sink.RenderJSON(l, buildJSONOptions(g, opts)...)
		case FormatSVG:
			data = sink.RenderSVG(l, buildSVGOptions(opts)...)
		case FormatDOT:
			data = sink.RenderDOT(g, invertLevels(l.Levels), opts.Config)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported output format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildJSONOptions builds JSON rendering options.
// The source graph rides along so consumers get node metadata and gaps
// next to the placed geometry.
func buildJSONOptions(g lineage.Graph, opts Options) []sink.JSONOption {
	jsonOpts := []sink.JSONOption{sink.WithJSONSource(g)}
	if opts.Compact {
		jsonOpts = append(jsonOpts, sink.WithJSONCompact())
	}
	return jsonOpts
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.EdgeLabels {
		svgOpts = append(svgOpts, sink.WithEdgeLabels())
	}
	return svgOpts
}

// invertLevels converts a layout's level rows back to the per-node level
// map the DOT sink takes.
func invertLevels(rows map[int][]string) map[string]int {
	levels := make(map[string]int, len(rows))
	for level, ids := range rows {
		for _, id := range ids {
			levels[id] = level
		}
	}
	return levels
}
