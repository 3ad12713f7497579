package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/1mgroot/Tracil-sub000/pkg/errors"
)

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // source file path, "" when the input was not a file
	output    string // --output flag value
	fallback  string // base path when both input and output are empty
}

// writeArtifacts writes rendered artifacts to disk and returns the paths
// written, in format order. A single format with an explicit --output goes
// exactly there; otherwise files are named <base>.<format>.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	base := basePath(p.output, p.input, p.fallback)
	explicit := len(p.formats) == 1 && p.output != ""

	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		path := base + "." + format
		if explicit {
			path = p.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "failed to write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the extensionless output base from the output and input
// paths. A known format extension on the output is stripped so that
// "-o lineage.svg -f svg,json" produces lineage.svg and lineage.json.
func basePath(output, input, fallback string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if isKnownFormat(strings.TrimPrefix(ext, ".")) {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input != "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return fallback
}

func isKnownFormat(s string) bool {
	for _, f := range errors.ValidFormats {
		if s == f {
			return true
		}
	}
	return false
}
