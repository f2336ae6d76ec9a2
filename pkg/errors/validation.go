package errors

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxSourceBytes bounds the size of a diagram source accepted from untrusted
// callers such as the HTTP API.
const MaxSourceBytes = 1 << 20

// ValidateSource validates diagram source text received from outside the
// process.
//
// The validation rules are intentionally conservative:
//   - No empty sources
//   - Valid UTF-8
//   - No null bytes
//   - Maximum length of MaxSourceBytes
func ValidateSource(src string) error {
	if strings.TrimSpace(src) == "" {
		return New(ErrCodeInvalidInput, "diagram source cannot be empty")
	}

	if len(src) > MaxSourceBytes {
		return New(ErrCodeInvalidInput, "diagram source too large (max %d bytes)", MaxSourceBytes)
	}

	if !utf8.ValidString(src) {
		return New(ErrCodeInvalidInput, "diagram source is not valid UTF-8")
	}

	if strings.ContainsRune(src, '\x00') {
		return New(ErrCodeInvalidInput, "diagram source contains null bytes")
	}

	return nil
}

// themeNameRegex matches built-in and user theme names.
var themeNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidateThemeName validates the syntax of a theme name. It does not check
// that the theme exists.
func ValidateThemeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTheme, "theme name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidTheme, "theme name too long (max 64 characters)")
	}

	if !themeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidTheme, "invalid theme name: %q", name)
	}

	return nil
}
