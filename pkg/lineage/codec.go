package lineage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// =============================================================================
// Wire Format
// =============================================================================
//
// The inference backend is an LLM-driven producer, so the wire format is
// decoded defensively: endpoint aliases are normalized, ids are trimmed,
// and unusable gap entries are dropped. Unknown fields never fail a decode.
// Encoding always emits the canonical bare-graph form.

// Envelope is the full analyze-variable response from the inference backend.
// The graph itself sits under "lineage"; summary may appear at either level.
type Envelope struct {
	Variable string `json:"variable"`
	Dataset  string `json:"dataset"`
	Summary  string `json:"summary,omitempty"`
	Lineage  *Graph `json:"lineage,omitempty"`
}

// UnmarshalGraph decodes lineage JSON in either accepted form: the bare
// graph {nodes, edges, ...} or the analyze-variable envelope
// {variable, dataset, summary, lineage: {...}}.
func UnmarshalGraph(data []byte) (Graph, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Graph{}, fmt.Errorf("decode lineage: %w", err)
	}
	if env.Lineage != nil {
		g := *env.Lineage
		if g.Summary == "" {
			g.Summary = env.Summary
		}
		return g, nil
	}

	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("decode lineage: %w", err)
	}
	return g, nil
}

// MarshalGraph converts a Graph to indented JSON bytes in canonical form.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a Graph as JSON to an io.Writer.
func WriteGraph(g Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file in either accepted form and returns the
// decoded Graph.
func ReadGraphFile(path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Graph{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalGraph(data)
}

// ReadGraph decodes lineage JSON from an io.Reader.
func ReadGraph(r io.Reader) (Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Graph{}, fmt.Errorf("read: %w", err)
	}
	return UnmarshalGraph(data)
}

func writeGraphTo(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// =============================================================================
// Tolerant Decoding
// =============================================================================

// UnmarshalJSON decodes a node, accepting the producer's field variants:
// "label" for title, "type" for group/kind, and loose annotation fields
// (description, explanation, file, confidence) which land in Meta.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Label       string   `json:"label"`
		Dataset     string   `json:"dataset"`
		Variable    string   `json:"variable"`
		Group       string   `json:"group"`
		Type        string   `json:"type"`
		Kind        string   `json:"kind"`
		Description string   `json:"description"`
		Explanation string   `json:"explanation"`
		File        string   `json:"file"`
		Confidence  *float64 `json:"confidence"`
		Meta        Metadata `json:"meta"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	n.ID = strings.TrimSpace(raw.ID)
	n.Title = firstNonEmpty(raw.Title, raw.Label)
	n.Dataset = raw.Dataset
	n.Variable = raw.Variable
	n.Group = ParseGroup(firstNonEmpty(raw.Group, raw.Type))

	switch Kind(raw.Kind) {
	case KindSource, KindIntermediate, KindTarget:
		n.Kind = Kind(raw.Kind)
	default:
		if strings.EqualFold(strings.TrimSpace(raw.Type), "target") {
			n.Kind = KindTarget
		} else {
			n.Kind = ""
		}
	}

	n.Meta = raw.Meta
	n.setMeta("description", raw.Description)
	n.setMeta("explanation", raw.Explanation)
	n.setMeta("file", raw.File)
	if raw.Confidence != nil {
		if n.Meta == nil {
			n.Meta = Metadata{}
		}
		n.Meta["confidence"] = *raw.Confidence
	}

	if n.Dataset == "" && n.Variable == "" {
		if ds, v, ok := splitRef(n.ID); ok {
			n.Dataset, n.Variable = ds, v
		}
	}
	return nil
}

func (n *Node) setMeta(key, val string) {
	if val == "" {
		return
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	n.Meta[key] = val
}

// UnmarshalJSON decodes an edge, accepting "source"/"target" as aliases for
// "from"/"to" and trimming whitespace from both endpoints.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var raw struct {
		From        string `json:"from"`
		To          string `json:"to"`
		Source      string `json:"source"`
		Target      string `json:"target"`
		Label       string `json:"label"`
		Explanation string `json:"explanation"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.From = strings.TrimSpace(firstNonEmpty(raw.From, raw.Source))
	e.To = strings.TrimSpace(firstNonEmpty(raw.To, raw.Target))
	e.Label = raw.Label
	e.Explanation = raw.Explanation
	return nil
}

// UnmarshalJSON decodes a gap from either a plain string or an object with
// source/target/explanation fields.
func (gp *Gap) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*gp = Gap{Explanation: s}
		return nil
	}

	type plain Gap
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*gp = Gap(p)
	return nil
}

// UnmarshalJSON decodes a graph body. Gap entries that are neither strings
// nor objects are dropped rather than failing the decode.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nodes   []Node            `json:"nodes"`
		Edges   []Edge            `json:"edges"`
		Summary string            `json:"summary"`
		Gaps    []json.RawMessage `json:"gaps"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	g.Nodes = raw.Nodes
	g.Edges = raw.Edges
	g.Summary = raw.Summary
	g.Gaps = decodeGaps(raw.Gaps)
	return nil
}

func decodeGaps(raw []json.RawMessage) []Gap {
	var gaps []Gap
	for _, r := range raw {
		var g Gap
		if err := json.Unmarshal(r, &g); err != nil {
			continue
		}
		gaps = append(gaps, g)
	}
	return gaps
}

// splitRef derives dataset and variable from ids shaped like the backend's
// variable references, e.g. "ADaM.ADSL.AGE" or "SDTM.DM.AGE".
func splitRef(id string) (dataset, variable string, ok bool) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return "", "", false
	}
	if ParseGroup(parts[0]) == GroupUnknown {
		return "", "", false
	}
	dataset, variable = parts[1], parts[2]
	if dataset == "" || variable == "" || strings.ContainsAny(dataset+variable, " \t") {
		return "", "", false
	}
	return dataset, variable, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
