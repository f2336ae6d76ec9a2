package theme

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/errors"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "classic", false},
		{"classic", "classic", false},
		{"modern", "modern", false},
		{"muted", "muted", false},
		{"high-contrast", "high-contrast", false},
		{"neon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidTheme) {
					t.Errorf("Lookup(%q) code = %v, want %v", tt.name, errors.GetCode(err), errors.ErrCodeInvalidTheme)
				}
				return
			}
			if got.Name != tt.want {
				t.Errorf("Lookup(%q).Name = %q, want %q", tt.name, got.Name, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	want := []string{"classic", "modern", "muted", "high-contrast"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestBuiltinsValid(t *testing.T) {
	for _, th := range All() {
		if err := Validate(th); err != nil {
			t.Errorf("Validate(%s) = %v", th.Name, err)
		}
	}
}

func TestElementColors(t *testing.T) {
	tests := []struct {
		name     string
		theme    Theme
		typ      c4.ElementType
		external bool
		want     Colors
	}{
		{"classic person", Classic, c4.Person, false, outline("#438DD5")},
		{"classic system", Classic, c4.SoftwareSystem, false, outline("#1168BD")},
		{"classic external system", Classic, c4.SoftwareSystem, true, outline("#999999")},
		{"classic external component", Classic, c4.Component, true, Colors{"#FFFFFF", "#CCCCCC", "#999999"}},
		{"classic deployment", Classic, c4.DeploymentNode, false, outline("#666666")},
		{"muted external container falls back", Muted, c4.Container, true, outline("#A0AEC0")},
		{"muted deployment default", Muted, c4.DeploymentNode, false, outline("#666666")},
		{"modern deployment", Modern, c4.DeploymentNode, false, Colors{"#F3F4F6", "#4B5563", "#4B5563"}},
		{"high contrast component", HighContrast, c4.Component, false, outline("#CC0000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.theme.ElementColors(tt.typ, tt.external); got != tt.want {
				t.Errorf("ElementColors() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParse_MergesOntoClassic(t *testing.T) {
	doc := `
name = "ocean"
font_size = 15

[container]
stroke = "#0077B6"
text = "#0077B6"

[external_component]
stroke = "#ABCDEF"
`
	th, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if th.Name != "ocean" || th.FontSize != 15 {
		t.Errorf("Parse() = %s/%v, want ocean/15", th.Name, th.FontSize)
	}
	if th.Container.Fill != "#FFFFFF" || th.Container.Stroke != "#0077B6" {
		t.Errorf("Container = %+v, want classic fill with new stroke", th.Container)
	}
	if th.Person != Classic.Person {
		t.Errorf("Person = %+v, want classic %+v", th.Person, Classic.Person)
	}
	if th.ExternalComponent.Stroke != "#ABCDEF" || th.ExternalComponent.Text != "#999999" {
		t.Errorf("ExternalComponent = %+v", th.ExternalComponent)
	}
	if Classic.ExternalComponent.Stroke != "#CCCCCC" {
		t.Error("Parse() mutated the Classic theme")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", "name = "},
		{"unknown key", "colour = \"#fff\""},
		{"bad colour", "[person]\nfill = \"blue\""},
		{"bad name", "name = \"Ocean Blue\""},
		{"zero font", "font_size = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			if !errors.Is(err, errors.ErrCodeInvalidTheme) {
				t.Errorf("Parse() error = %v, want %v", err, errors.ErrCodeInvalidTheme)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dark.toml")
	if err := os.WriteFile(path, []byte("name = \"dark\"\nbackground = \"#111111\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if th.Name != "dark" || th.Background != "#111111" {
		t.Errorf("LoadFile() = %s/%s, want dark/#111111", th.Name, th.Background)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadFile(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}
