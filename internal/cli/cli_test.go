package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	if c.Logger == nil {
		t.Fatal("New() returned CLI with nil logger")
	}

	c.Logger.Info("hello")
	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug output should be suppressed at info level")
	}

	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug output should appear after SetLogLevel(debug)")
	}
}

func TestRootCommand(t *testing.T) {
	c := New(bytes.NewBuffer(nil), log.InfoLevel)
	root := c.RootCommand()

	if root.Use != "tracil" {
		t.Errorf("root.Use = %q, want %q", root.Use, "tracil")
	}

	want := []string{"analyze", "layout", "render", "visualize", "browse", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestSplitQuery(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		dataset  string
		variable string
		wantErr  bool
	}{
		{name: "dataset and variable", ref: "ADSL.AGE", dataset: "ADSL", variable: "AGE"},
		{name: "standard prefix", ref: "sdtm.DM.BRTHDTC", dataset: "DM", variable: "BRTHDTC"},
		{name: "whitespace trimmed", ref: "  ADSL.AGE  ", dataset: "ADSL", variable: "AGE"},
		{name: "bare variable", ref: "AGE", wantErr: true},
		{name: "too many parts", ref: "a.b.c.d", wantErr: true},
		{name: "empty", ref: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, v, err := splitQuery(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("splitQuery(%q) expected error, got %q.%q", tt.ref, ds, v)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitQuery(%q) error: %v", tt.ref, err)
			}
			if ds != tt.dataset || v != tt.variable {
				t.Errorf("splitQuery(%q) = %q.%q, want %q.%q", tt.ref, ds, v, tt.dataset, tt.variable)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	got := parseFormats("")
	if len(got) != 1 || got[0] != "json" {
		t.Errorf("parseFormats(\"\") = %v, want [json]", got)
	}

	got = parseFormats("svg,dot")
	if len(got) != 2 || got[0] != "svg" || got[1] != "dot" {
		t.Errorf("parseFormats(\"svg,dot\") = %v", got)
	}
}

func TestHasFormat(t *testing.T) {
	formats := []string{"json", "svg"}
	if !hasFormat(formats, "svg") {
		t.Error("hasFormat should find svg")
	}
	if hasFormat(formats, "dot") {
		t.Error("hasFormat should not find dot")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
