package errors

import (
	"strings"
	"testing"
)

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "graph TB\nA[A<br/>Person]\n", false},
		{"valid unicode", "graph TB\nA[Kunde äöü<br/>Person]\n", false},

		{"empty", "", true},
		{"whitespace only", " \n\t\n", true},
		{"too large", strings.Repeat("a", MaxSourceBytes+1), true},
		{"invalid utf8", "graph TB\n\xff\xfe", true},
		{"null byte", "graph TB\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateSource() returned wrong error code: %v", err)
			}
		})
	}
}

func TestValidateThemeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"classic", "classic", false},
		{"with dash", "high-contrast", false},
		{"with digits", "brand2", false},

		{"empty", "", true},
		{"uppercase", "Classic", true},
		{"leading digit", "2dark", true},
		{"path", "../themes/x", true},
		{"too long", "a" + strings.Repeat("b", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThemeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateThemeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTheme) {
				t.Errorf("ValidateThemeName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeSyntax,
		ErrCodeDuplicateID,
		ErrCodeUnresolvedRef,
		ErrCodeUnknownElementType,
		ErrCodeUnsupportedArrow,
		ErrCodeInvalidNesting,
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidTheme,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeTimeout,
		ErrCodeRateLimited,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
