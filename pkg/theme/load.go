package theme

import (
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/c4x/pkg/errors"
)

var colorRe = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)

// LoadFile reads a TOML theme file. Keys absent from the file keep their
// [Classic] values.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Theme{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "theme file %s", path)
		}
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "read theme file %s", path)
	}
	t, err := Parse(string(data))
	if err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "theme file %s", path)
	}
	return t, nil
}

// Parse decodes a TOML theme document on top of [Classic].
func Parse(doc string) (Theme, error) {
	t := Classic
	t.ExternalPerson = cloneColors(Classic.ExternalPerson)
	t.ExternalContainer = cloneColors(Classic.ExternalContainer)
	t.ExternalComponent = cloneColors(Classic.ExternalComponent)
	t.DeploymentNode = cloneColors(Classic.DeploymentNode)

	md, err := toml.Decode(doc, &t)
	if err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "decode theme")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Theme{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme keys: %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("name") {
		t.Name = "custom"
	}
	if err := Validate(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// Validate checks the theme name and every colour value.
func Validate(t Theme) error {
	if err := errors.ValidateThemeName(t.Name); err != nil {
		return err
	}
	check := func(field, v string) error {
		if !colorRe.MatchString(v) {
			return errors.New(errors.ErrCodeInvalidTheme, "%s: invalid colour %q", field, v)
		}
		return nil
	}
	boxes := []struct {
		name string
		c    *Colors
	}{
		{"person", &t.Person},
		{"software_system", &t.SoftwareSystem},
		{"external_system", &t.ExternalSystem},
		{"container", &t.Container},
		{"component", &t.Component},
		{"external_person", t.ExternalPerson},
		{"external_container", t.ExternalContainer},
		{"external_component", t.ExternalComponent},
		{"deployment_node", t.DeploymentNode},
	}
	for _, b := range boxes {
		if b.c == nil {
			continue
		}
		for _, f := range []struct{ key, v string }{{"fill", b.c.Fill}, {"stroke", b.c.Stroke}, {"text", b.c.Text}} {
			if err := check(b.name+"."+f.key, f.v); err != nil {
				return err
			}
		}
	}
	if err := check("relationship.stroke", t.Relationship.Stroke); err != nil {
		return err
	}
	if err := check("relationship.text", t.Relationship.Text); err != nil {
		return err
	}
	if err := check("background", t.Background); err != nil {
		return err
	}
	if t.FontSize <= 0 || t.BorderWidth < 0 || t.BorderRadius < 0 {
		return errors.New(errors.ErrCodeInvalidTheme, "font_size must be positive and border values non-negative")
	}
	return nil
}

func cloneColors(c *Colors) *Colors {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
