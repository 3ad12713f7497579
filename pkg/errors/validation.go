package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// datasetNameRegex matches CDISC dataset names: up to 8 uppercase
// alphanumeric characters starting with a letter (ADSL, DM, ADAE, LB).
var datasetNameRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,7}$`)

// ValidateDatasetName validates a CDISC dataset name (SDTM domain or ADaM
// dataset). Names are conventionally uppercase and at most 8 characters,
// e.g. DM, LB, ADSL, ADAE.
func ValidateDatasetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDataset, "dataset name cannot be empty")
	}
	if !datasetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidDataset, "invalid dataset name: %q (expected up to 8 uppercase alphanumerics)", name)
	}
	return nil
}

// variableNameRegex matches CDISC variable names: up to 8 uppercase
// alphanumeric or underscore characters starting with a letter.
var variableNameRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,7}$`)

// ValidateVariableName validates a CDISC variable name (AGE, USUBJID,
// TRT01P). The 8-character limit comes from the SAS transport format the
// standards inherit.
func ValidateVariableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidVariable, "variable name cannot be empty")
	}
	if !variableNameRegex.MatchString(name) {
		return New(ErrCodeInvalidVariable, "invalid variable name: %q (expected up to 8 uppercase alphanumerics)", name)
	}
	return nil
}

// ValidateNodeID validates a lineage node identifier for safety.
// Node ids come from an untrusted upstream producer, so the rules are
// conservative rather than format-specific:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidGraph, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateStrategy validates a layout strategy name.
// An empty name is valid and selects the automatic strategy.
func ValidateStrategy(name string) error {
	switch name {
	case "", "rows", "dot":
		return nil
	default:
		return New(ErrCodeInvalidStrategy, "unknown layout strategy: %q (valid: rows, dot)", name)
	}
}

// ValidFormats lists the render formats the CLI and API accept.
var ValidFormats = []string{"json", "svg", "dot"}

// ValidateFormat validates a render format name.
func ValidateFormat(format string) error {
	for _, f := range ValidFormats {
		if format == f {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unknown format: %q (valid: %s)", format, strings.Join(ValidFormats, ", "))
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
