package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/c4x/pkg/errors"
	"github.com/matzehuels/c4x/pkg/theme"
)

const testDiagram = `graph TB
Customer[Customer<br/>Person]
Bank[Internet Banking<br/>Software System]
Customer -->|Uses| Bank
`

const brokenDiagram = `graph TB
Customer[Customer<br/>Person]
Customer --> Ghost
`

// isolate runs the test in an empty directory with no user configuration.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	return dir
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	isolate(t)
	writeFile(t, "system.c4x", testDiagram)

	out, err := runCLI(t, "render", "system.c4x", "--no-cache", "-f", "svg,json")
	if err != nil {
		t.Fatalf("render error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Rendered system.c4x") {
		t.Errorf("output = %q, want success line", out)
	}

	svg, err := os.ReadFile("system.svg")
	if err != nil {
		t.Fatalf("system.svg not written: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("system.svg is not an SVG document")
	}
	data, err := os.ReadFile("system.json")
	if err != nil {
		t.Fatalf("system.json not written: %v", err)
	}
	if !json.Valid(data) {
		t.Error("system.json is not valid JSON")
	}
}

func TestRender_Batch(t *testing.T) {
	isolate(t)
	writeFile(t, "a.c4x", testDiagram)
	writeFile(t, "b.c4x", testDiagram)

	if out, err := runCLI(t, "render", "a.c4x", "b.c4x", "--no-cache", "-o", "build", "-j", "2"); err != nil {
		t.Fatalf("render error = %v\n%s", err, out)
	}
	for _, p := range []string{"build/a.svg", "build/b.svg"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}

func TestRender_Stdout(t *testing.T) {
	isolate(t)
	writeFile(t, "system.c4x", testDiagram)

	out, err := runCLI(t, "render", "system.c4x", "--no-cache", "-o", "-")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "<svg") && !strings.HasPrefix(out, "<?xml") {
		t.Errorf("stdout does not start with an SVG document: %.60q", out)
	}

	if _, err := runCLI(t, "render", "system.c4x", "--no-cache", "-o", "-", "-f", "svg,dot"); err == nil {
		t.Error("-o - with two formats succeeded, want error")
	}
}

func TestRender_Failure(t *testing.T) {
	isolate(t)
	writeFile(t, "good.c4x", testDiagram)
	writeFile(t, "bad.c4x", brokenDiagram)

	out, err := runCLI(t, "render", "good.c4x", "bad.c4x", "--no-cache", "-o", "out")
	if err == nil || err.Error() != "1 of 2 diagrams failed" {
		t.Fatalf("render error = %v, want 1 of 2 diagrams failed", err)
	}
	if !strings.Contains(out, "bad.c4x:3:1:") {
		t.Errorf("output = %q, want positioned diagnostic", out)
	}
	if _, err := os.Stat("out/good.svg"); err != nil {
		t.Errorf("good diagram not written: %v", err)
	}
}

func TestValidate(t *testing.T) {
	isolate(t)
	writeFile(t, "good.c4x", testDiagram)
	writeFile(t, "bad.c4x", brokenDiagram)

	out, err := runCLI(t, "validate", "good.c4x")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "good.c4x (system-context, 2 elements, 1 relationship)") {
		t.Errorf("output = %q", out)
	}

	out, err = runCLI(t, "validate", "good.c4x", "bad.c4x")
	if err == nil {
		t.Fatal("validate with an invalid diagram succeeded")
	}
	if !strings.Contains(out, `bad.c4x:3:1: relationship references unknown element "Ghost"`) {
		t.Errorf("output = %q", out)
	}
}

func TestLayoutAndDot(t *testing.T) {
	isolate(t)
	writeFile(t, "system.c4x", testDiagram)

	out, err := runCLI(t, "layout", "system.c4x", "--no-cache")
	if err != nil {
		t.Fatalf("layout error = %v", err)
	}
	if !json.Valid([]byte(out)) || !strings.Contains(out, `"nodes"`) {
		t.Errorf("layout output is not a layout document: %.80q", out)
	}

	out, err = runCLI(t, "dot", "system.c4x", "--no-cache")
	if err != nil {
		t.Fatalf("dot error = %v", err)
	}
	if !strings.Contains(out, "digraph") {
		t.Errorf("dot output = %.80q, want a digraph", out)
	}

	writeFile(t, "bad.c4x", brokenDiagram)
	if _, err := runCLI(t, "layout", "bad.c4x", "--no-cache"); err != ErrReported {
		t.Errorf("layout of invalid diagram error = %v, want ErrReported", err)
	}
}

func TestMarkdown(t *testing.T) {
	isolate(t)
	writeFile(t, "doc.md", "# Arch\n\n```c4x\n"+testDiagram+"```\n")

	out, err := runCLI(t, "markdown", "doc.md", "--no-cache")
	if err != nil {
		t.Fatalf("markdown error = %v", err)
	}
	if !strings.Contains(out, `<div class="c4x-diagram">`) || !strings.HasPrefix(out, "# Arch") {
		t.Errorf("output = %.120q", out)
	}

	writeFile(t, "bad.md", "```c4x\n"+brokenDiagram+"```\n")
	if _, err := runCLI(t, "markdown", "bad.md", "--no-cache", "--strict"); err != ErrReported {
		t.Errorf("--strict error = %v, want ErrReported", err)
	}
}

func TestThemes(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "themes")
	if err != nil {
		t.Fatalf("themes error = %v", err)
	}
	for _, name := range theme.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("themes output missing %q", name)
		}
	}
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	cacheDir := filepath.Join(dir, "cache")
	writeFile(t, "c4x.toml", "[cache]\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n")

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error = %v", err)
	}
	if got := strings.TrimSpace(out); got != cacheDir {
		t.Errorf("cache path = %q, want %q", got, cacheDir)
	}

	writeFile(t, "system.c4x", testDiagram)
	if _, err := runCLI(t, "render", "system.c4x"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	out, err = runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if !strings.Contains(out, "Cleared") {
		t.Errorf("cache clear output = %q", out)
	}

	writeFile(t, "c4x.toml", "theme = \"nope\"\n")
	if _, err := runCLI(t, "themes"); err == nil {
		t.Error("invalid config accepted")
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(out, "c4x") {
		t.Error("bash completion does not mention c4x")
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		formats []string
		multi   bool
		want    map[string]string
	}{
		{"default", "diagrams/sys.c4x", "", []string{"svg"}, false, map[string]string{"svg": "diagrams/sys.svg"}},
		{"explicit file", "sys.c4x", "out.svg", []string{"svg"}, false, map[string]string{"svg": "out.svg"}},
		{"base path", "sys.c4x", "out/sys.svg", []string{"svg", "json"}, false,
			map[string]string{"svg": "out/sys.svg", "json": "out/sys.json"}},
		{"directory", "a/sys.c4x", "build", []string{"dot", "graphviz"}, true,
			map[string]string{"dot": filepath.Join("build", "sys.dot"), "graphviz": filepath.Join("build", "sys.gv.svg")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.input, tt.output, tt.formats, tt.multi)
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], want)
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"out/sys.svg", "out/sys"},
		{"out/sys.gv.svg", "out/sys"},
		{"out/sys.json", "out/sys"},
		{"out/sys", "out/sys"},
		{"out/sys.png", "out/sys.png"},
	}
	for _, tt := range tests {
		if got := basePath(tt.in); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWorkspaceName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"diagrams/payments.c4x", "payments"},
		{"system", "system"},
		{".c4x", "c4x"},
	}
	for _, tt := range tests {
		if got := workspaceName(tt.in); got != tt.want {
			t.Errorf("workspaceName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDiagnostic(t *testing.T) {
	err := errors.At(errors.ErrCodeUnresolvedRef, errors.Pos{Line: 4, Column: 2}, "relationship references unknown element %q", "Ghost")
	got := formatDiagnostic("sys.c4x", err)
	want := `sys.c4x:4:2: relationship references unknown element "Ghost" [` + string(errors.ErrCodeUnresolvedRef) + "]"
	if got != want {
		t.Errorf("formatDiagnostic() = %q, want %q", got, want)
	}

	if got := formatDiagnostic("sys.c4x", io.EOF); got != "sys.c4x: EOF" {
		t.Errorf("formatDiagnostic(EOF) = %q", got)
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		noun string
		want string
	}{
		{1, "element", "1 element"},
		{0, "element", "0 elements"},
		{3, "boundary", "3 boundaries"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, tt.noun); got != tt.want {
			t.Errorf("plural(%d, %q) = %q, want %q", tt.n, tt.noun, got, tt.want)
		}
	}
}
