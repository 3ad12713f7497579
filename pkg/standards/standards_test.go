package standards

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

const sampleCollection = `{
  "standards": {
    "SDTM": {
      "type": "SDTM",
      "label": "Study Data Tabulation Model",
      "datasetEntities": {
        "DM": {
          "name": "DM",
          "label": "Demographics",
          "type": "domain",
          "variables": [
            {"name": "USUBJID", "label": "Unique Subject Identifier", "type": "Char", "length": 20, "role": "Identifier", "mandatory": true},
            {"name": "AGE", "label": "Age", "type": "Num", "length": 8, "role": "Record Qualifier"}
          ]
        }
      }
    },
    "ADaM": {
      "type": "ADaM",
      "label": "Analysis Data Model",
      "datasetEntities": {
        "ADSL": {
          "name": "ADSL",
          "label": "Subject-Level Analysis Dataset",
          "type": "analysis_dataset",
          "variables": [
            {"name": "AGE", "label": "Age", "type": "Num", "length": null, "role": null}
          ]
        }
      }
    },
    "Protocol": {
      "type": "Protocol",
      "label": "Clinical Study Protocol"
    }
  }
}`

func decodeSample(t *testing.T) Collection {
	t.Helper()
	c, err := DecodeCollection([]byte(sampleCollection))
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	return c
}

func TestDecodeCollection(t *testing.T) {
	c := decodeSample(t)

	if len(c.Standards) != 3 {
		t.Fatalf("len(Standards) = %d, want 3", len(c.Standards))
	}

	sdtm, ok := c.Standard("SDTM")
	if !ok {
		t.Fatal("Standard(SDTM) not found")
	}
	if sdtm.Label != "Study Data Tabulation Model" {
		t.Errorf("SDTM label = %q", sdtm.Label)
	}

	dm, ok := sdtm.DatasetEntities["DM"]
	if !ok {
		t.Fatal("DM entity missing")
	}
	if dm.Type != "domain" {
		t.Errorf("DM type = %q, want domain", dm.Type)
	}
	if len(dm.Variables) != 2 {
		t.Fatalf("DM variables = %d, want 2", len(dm.Variables))
	}

	usubjid := dm.Variables[0]
	if usubjid.Length == nil || *usubjid.Length != 20 {
		t.Errorf("USUBJID length = %v, want 20", usubjid.Length)
	}
	if !usubjid.Mandatory {
		t.Error("USUBJID should be mandatory")
	}

	// Null length decodes to a nil pointer.
	adam, _ := c.Standard("ADaM")
	age := adam.DatasetEntities["ADSL"].Variables[0]
	if age.Length != nil {
		t.Errorf("ADSL.AGE length = %v, want nil", age.Length)
	}
}

func TestDecodeCollectionInvalid(t *testing.T) {
	_, err := DecodeCollection([]byte("{not json"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("DecodeCollection(garbage) error = %v, want INVALID_FORMAT", err)
	}
}

func TestReadCollectionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standards.json")
	if err := os.WriteFile(path, []byte(sampleCollection), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := ReadCollectionFile(path)
	if err != nil {
		t.Fatalf("ReadCollectionFile() error = %v", err)
	}
	if len(c.Standards) != 3 {
		t.Errorf("len(Standards) = %d, want 3", len(c.Standards))
	}

	_, err = ReadCollectionFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCollectionStandardCaseInsensitive(t *testing.T) {
	c := decodeSample(t)
	for _, name := range []string{"ADaM", "adam", "ADAM"} {
		if _, ok := c.Standard(name); !ok {
			t.Errorf("Standard(%q) not found", name)
		}
	}
	if _, ok := c.Standard("SEND"); ok {
		t.Error("Standard(SEND) should not be found")
	}
}

func TestCollectionNames(t *testing.T) {
	c := decodeSample(t)
	got := c.Names()
	want := []string{"Protocol", "SDTM", "ADaM"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCollectionFind(t *testing.T) {
	c := decodeSample(t)

	d, v, ok := c.Find(Ref{Standard: "SDTM", Dataset: "DM", Variable: "AGE"})
	if !ok {
		t.Fatal("Find(SDTM.DM.AGE) not found")
	}
	if d.Label != "Demographics" {
		t.Errorf("dataset label = %q", d.Label)
	}
	if v.Name != "AGE" || v.Type != "Num" {
		t.Errorf("variable = %+v", v)
	}

	// Dataset exists but variable does not.
	if _, _, ok := c.Find(Ref{Standard: "SDTM", Dataset: "DM", Variable: "WEIGHT"}); ok {
		t.Error("Find(SDTM.DM.WEIGHT) should not resolve")
	}
	// Dataset missing entirely.
	if _, _, ok := c.Find(Ref{Standard: "SDTM", Dataset: "LB", Variable: "LBTESTCD"}); ok {
		t.Error("Find(SDTM.LB.LBTESTCD) should not resolve")
	}
}

func TestCollectionVariableCount(t *testing.T) {
	c := decodeSample(t)
	if got := c.VariableCount(); got != 3 {
		t.Errorf("VariableCount() = %d, want 3", got)
	}
}

func TestStandardGroup(t *testing.T) {
	tests := []struct {
		typ  string
		want lineage.Group
	}{
		{"SDTM", lineage.GroupSDTM},
		{"ADaM", lineage.GroupADaM},
		{"CRF", lineage.GroupCRF},
		{"Protocol", lineage.GroupProtocol},
		{"TLF", lineage.GroupTLF},
		{"SEND", lineage.GroupUnknown},
	}
	for _, tt := range tests {
		if got := (Standard{Type: tt.typ}).Group(); got != tt.want {
			t.Errorf("Standard{%q}.Group() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
	}{
		{"ADaM.ADSL.AGE", Ref{"ADaM", "ADSL", "AGE"}},
		{"adam.adsl.age", Ref{"ADaM", "ADSL", "AGE"}},
		{"sdtm.dm.usubjid", Ref{"SDTM", "DM", "USUBJID"}},
		{" TLF.T-14-3-01.N ", Ref{"TLF", "T-14-3-01", "N"}},
		{"acrf.PAGE12.AGE", Ref{"CRF", "PAGE12", "AGE"}},
	}
	for _, tt := range tests {
		got, err := ParseRef(tt.in)
		if err != nil {
			t.Errorf("ParseRef(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRef(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseRefInvalid(t *testing.T) {
	for _, in := range []string{"", "ADSL.AGE", "ADaM.ADSL.AGE.EXTRA", "SEND.DM.AGE", "ADaM..AGE", "ADaM.ADSL."} {
		if _, err := ParseRef(in); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ParseRef(%q) error = %v, want INVALID_INPUT", in, err)
		}
	}
}

func TestRefNodeID(t *testing.T) {
	r := Ref{Standard: "ADaM", Dataset: "ADSL", Variable: "AGE"}
	if got := r.NodeID(); got != "ADaM.ADSL.AGE" {
		t.Errorf("NodeID() = %q, want ADaM.ADSL.AGE", got)
	}
}
