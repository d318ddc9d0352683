package errors

import (
	"strings"
	"testing"
)

func TestValidatePathSegment(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty means all", "", false},
		{"simple", "john", false},
		{"with space", "ada lovelace", false},
		{"with dot", "j.doe", false},
		{"inner dots", "A..B", false},
		{"slash is escaped", "foo/bar", false},
		{"backslash", "foo\\bar", false},
		{"long", strings.Repeat("a", 300), false},

		{"dot", ".", true},
		{"dot dot", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathSegment("author", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePathSegment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidatePathSegment(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateBlueprintName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "house", false},
		{"with digits", "bp-2024", false},

		{"empty", "", true},
		{"slash", "a/b", true},
		{"control char", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlueprintName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBlueprintName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
