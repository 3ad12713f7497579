// Package upstream provides the HTTP client for the lineage inference
// backend.
//
// # Overview
//
// Lineage graphs are produced by an external LLM-driven service. This
// package owns the one endpoint the rest of the system needs:
//
//	client, err := upstream.NewClient("http://localhost:8000")
//	graph, err := client.AnalyzeVariable(ctx, "ADSL", "AGE")
//
// The client handles:
//   - Retry with exponential backoff for network errors and 5xx responses
//   - Optional response caching via [httputil.Cache] (namespace "upstream:")
//   - Either accepted wire form (bare graph or analyze envelope)
//
// # Degraded Results
//
// Inference backends fail in uninteresting ways at interesting times, so
// by default a failed call degrades rather than errors: the client returns
// a graph containing only the queried variable plus a gap annotation
// naming the failure, the same payload the backend itself emits on its
// error path. Downstream layout and rendering then proceed normally and
// the user sees their variable with an explicit hole instead of a stack
// trace. Use [WithStrict] where an error is more useful than a picture.
//
// [httputil.Cache]: github.com/1mgroot/Tracil-sub000/pkg/httputil.Cache
package upstream
