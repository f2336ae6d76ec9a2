package buildinfo

import (
	"strings"
	"testing"
)

func TestStrings(t *testing.T) {
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"
	t.Cleanup(func() { Version, Commit, Date = "dev", "none", "unknown" })

	if got, want := Short(), "c4x v1.2.3 (abc123)"; got != want {
		t.Errorf("Short() = %q, want %q", got, want)
	}
	if got := String(); !strings.Contains(got, "commit: abc123") || !strings.Contains(got, "built: 2026-01-02") {
		t.Errorf("String() = %q", got)
	}
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v1.2.3\n") {
		t.Errorf("Template() = %q", got)
	}
}
