package store

import (
	"path/filepath"
	"testing"

	"github.com/1mgroot/Tracil-sub000/pkg/layout"
)

func TestSnapshotFileRoundTrip(t *testing.T) {
	l := &layout.Layout{
		Strategy: layout.StrategyRows,
		Width:    960,
		Height:   200,
		Levels:   map[int][]string{0: {"SDTM.DM.AGE"}, 1: {"ADaM.ADSL.AGE"}},
	}
	s := NewSnapshot("ADSL", "AGE", sampleGraph(), l)

	path := filepath.Join(t.TempDir(), "adsl_age.snapshot.json")
	if err := WriteSnapshotFile(s, path); err != nil {
		t.Fatalf("WriteSnapshotFile() error = %v", err)
	}

	got, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("ReadSnapshotFile() error = %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("id = %q, want %q", got.ID, s.ID)
	}
	if got.Dataset != "ADSL" || got.Variable != "AGE" {
		t.Errorf("query = %s.%s, want ADSL.AGE", got.Dataset, got.Variable)
	}
	if got.Summary != s.Summary {
		t.Errorf("summary = %q, want %q", got.Summary, s.Summary)
	}
	if len(got.Graph.Nodes) != len(s.Graph.Nodes) {
		t.Errorf("node count = %d, want %d", len(got.Graph.Nodes), len(s.Graph.Nodes))
	}
	if got.Layout == nil {
		t.Fatal("layout missing after round trip")
	}
	if got.Layout.Strategy != layout.StrategyRows {
		t.Errorf("layout strategy = %q, want %q", got.Layout.Strategy, layout.StrategyRows)
	}
	if !got.CreatedAt.Equal(s.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, s.CreatedAt)
	}
}

func TestReadSnapshotFileMissing(t *testing.T) {
	if _, err := ReadSnapshotFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("ReadSnapshotFile() on a missing file succeeded")
	}
}
