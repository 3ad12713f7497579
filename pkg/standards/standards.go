package standards

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// Canonical standard names. Lookups are case-insensitive but these spellings
// are used in node ids and output.
const (
	StandardSDTM     = "SDTM"
	StandardADaM     = "ADaM"
	StandardCRF      = "CRF"
	StandardProtocol = "Protocol"
	StandardTLF      = "TLF"
)

// Variable is one variable's metadata within a dataset entity.
type Variable struct {
	Name      string `json:"name" bson:"name"`
	Label     string `json:"label,omitempty" bson:"label,omitempty"`
	Type      string `json:"type,omitempty" bson:"type,omitempty"`
	Length    *int   `json:"length,omitempty" bson:"length,omitempty"`
	Role      string `json:"role,omitempty" bson:"role,omitempty"`
	Mandatory bool   `json:"mandatory,omitempty" bson:"mandatory,omitempty"`
}

// DatasetEntity is one dataset within a standard: an SDTM domain, an ADaM
// analysis dataset, a CRF form, a protocol section, or a TLF output.
type DatasetEntity struct {
	Name      string     `json:"name" bson:"name"`
	Label     string     `json:"label,omitempty" bson:"label,omitempty"`
	Type      string     `json:"type,omitempty" bson:"type,omitempty"`
	Variables []Variable `json:"variables,omitempty" bson:"variables,omitempty"`
}

// Variable returns the named variable within the entity.
func (d DatasetEntity) Variable(name string) (Variable, bool) {
	for _, v := range d.Variables {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return Variable{}, false
}

// Standard groups dataset entities under one CDISC standard.
type Standard struct {
	Type            string                   `json:"type" bson:"type"`
	Label           string                   `json:"label,omitempty" bson:"label,omitempty"`
	DatasetEntities map[string]DatasetEntity `json:"datasetEntities,omitempty" bson:"datasetEntities,omitempty"`
}

// Group maps the standard to its lineage node group.
func (s Standard) Group() lineage.Group {
	return lineage.ParseGroup(s.Type)
}

// Datasets returns the standard's entities sorted by name.
func (s Standard) Datasets() []DatasetEntity {
	out := make([]DatasetEntity, 0, len(s.DatasetEntities))
	for _, d := range s.DatasetEntities {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Collection is the full standards tree keyed by standard name
// (SDTM, ADaM, CRF, Protocol, TLF).
type Collection struct {
	Standards map[string]Standard `json:"standards" bson:"standards"`
}

// Standard returns the named standard, matching case-insensitively.
func (c Collection) Standard(name string) (Standard, bool) {
	if s, ok := c.Standards[name]; ok {
		return s, true
	}
	for k, s := range c.Standards {
		if strings.EqualFold(k, name) {
			return s, true
		}
	}
	return Standard{}, false
}

// Names returns the collection's standard names sorted in pipeline order:
// Protocol, CRF, SDTM, ADaM, TLF, then anything unrecognized.
func (c Collection) Names() []string {
	order := map[string]int{
		StandardProtocol: 0,
		StandardCRF:      1,
		StandardSDTM:     2,
		StandardADaM:     3,
		StandardTLF:      4,
	}
	names := make([]string, 0, len(c.Standards))
	for name := range c.Standards {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, oki := order[names[i]]
		oj, okj := order[names[j]]
		if oki != okj {
			return oki
		}
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

// VariableCount totals the variables across all standards.
func (c Collection) VariableCount() int {
	total := 0
	for _, s := range c.Standards {
		for _, d := range s.DatasetEntities {
			total += len(d.Variables)
		}
	}
	return total
}

// Find resolves a variable reference against the collection.
func (c Collection) Find(ref Ref) (DatasetEntity, Variable, bool) {
	s, ok := c.Standard(ref.Standard)
	if !ok {
		return DatasetEntity{}, Variable{}, false
	}
	for name, d := range s.DatasetEntities {
		if !strings.EqualFold(name, ref.Dataset) {
			continue
		}
		if v, ok := d.Variable(ref.Variable); ok {
			return d, v, true
		}
		return d, Variable{}, false
	}
	return DatasetEntity{}, Variable{}, false
}

// DecodeCollection parses a standards tree from JSON.
func DecodeCollection(data []byte) (Collection, error) {
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return Collection{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "failed to parse standards collection")
	}
	return c, nil
}

// ReadCollectionFile reads a standards tree from a JSON file.
func ReadCollectionFile(path string) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Collection{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "failed to read %s", path)
	}
	return DecodeCollection(data)
}

// Ref is a fully qualified variable reference, the shape target node ids use
// in lineage graphs.
type Ref struct {
	Standard string
	Dataset  string
	Variable string
}

// NodeID renders the reference in canonical node id form, e.g.
// "ADaM.ADSL.AGE".
func (r Ref) NodeID() string {
	return r.Standard + "." + r.Dataset + "." + r.Variable
}

// ParseRef parses "Standard.DATASET.VARIABLE" references. Dataset and
// variable are uppercased; the standard takes its canonical spelling.
func ParseRef(s string) (Ref, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Ref{}, errors.New(errors.ErrCodeInvalidInput,
			"reference %q must have the form Standard.DATASET.VARIABLE", s)
	}
	std, ok := canonicalStandard(parts[0])
	if !ok {
		return Ref{}, errors.New(errors.ErrCodeInvalidInput,
			"unknown standard %q in reference %q", parts[0], s)
	}
	ds := strings.ToUpper(strings.TrimSpace(parts[1]))
	v := strings.ToUpper(strings.TrimSpace(parts[2]))
	if ds == "" || v == "" {
		return Ref{}, errors.New(errors.ErrCodeInvalidInput,
			"reference %q has an empty dataset or variable part", s)
	}
	return Ref{Standard: std, Dataset: ds, Variable: v}, nil
}

func canonicalStandard(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sdtm":
		return StandardSDTM, true
	case "adam":
		return StandardADaM, true
	case "crf", "acrf":
		return StandardCRF, true
	case "protocol":
		return StandardProtocol, true
	case "tlf":
		return StandardTLF, true
	}
	return "", false
}
