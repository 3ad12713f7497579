// Package cli implements the tracil command-line interface.
//
// This package provides commands for tracing variable lineage through the
// inference backend, laying out and rendering lineage documents, browsing
// the CDISC standards tree, serving the HTTP API, and managing the local
// cache. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - analyze: Trace a variable's lineage and render it
//   - layout: Compute a layout from a lineage document
//   - render: Render a lineage document to JSON, SVG, or DOT
//   - visualize: Render a computed layout
//   - browse: Pick a variable from the standards tree interactively
//   - serve: Run the HTTP API server
//   - cache: Manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The CLI's
// logger is shared with the pipeline runner and the inference client, so
// their structured output interleaves with command progress.
//
// # Example
//
//	import "github.com/1mgroot/Tracil-sub000/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
