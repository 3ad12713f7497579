package errors

import (
	"testing"
)

func TestValidateDatasetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid SDTM domain", "DM", false},
		{"valid ADaM dataset", "ADSL", false},
		{"valid with digit", "ADTTE1", false},
		{"valid max length", "ADQSADAS", false},

		{"empty", "", true},
		{"lowercase", "adsl", true},
		{"too long", "ADQSADAS2", true},
		{"leading digit", "1DM", true},
		{"with space", "AD SL", true},
		{"with dot", "AD.SL", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatasetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDatasetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateVariableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid short", "AGE", false},
		{"valid subject id", "USUBJID", false},
		{"valid treatment", "TRT01P", false},
		{"valid with underscore", "AVAL_X", false},

		{"empty", "", true},
		{"lowercase", "age", true},
		{"too long", "USUBJIDXX", true},
		{"leading digit", "1AGE", true},
		{"leading underscore", "_AGE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVariableName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVariableName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid variable ref", "ADaM.ADSL.AGE", false},
		{"valid with spaces", "Protocol Section 8.1", false},
		{"valid crf item", "CRF.DM.BRTHDTC", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStrategy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty means auto", "", false},
		{"rows", "rows", false},
		{"dot", "dot", false},

		{"unknown", "circular", true},
		{"uppercase", "ROWS", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStrategy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStrategy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range ValidFormats {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", f, err)
		}
	}

	if err := ValidateFormat("pdf"); err == nil {
		t.Error("ValidateFormat(\"pdf\") = nil, want error")
	}
	if !Is(ValidateFormat("pdf"), ErrCodeInvalidFormat) {
		t.Error("ValidateFormat error code != ErrCodeInvalidFormat")
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://localhost:8000", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
