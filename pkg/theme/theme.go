// Package theme holds the colour and typography tables used by the SVG
// renderer.
//
// Four themes are built in ([Classic], [Modern], [Muted], [HighContrast]);
// [Lookup] resolves one by name. Custom themes are TOML documents with the
// same shape as [Theme], loaded with [LoadFile]; keys they omit keep the
// classic values.
package theme

import "github.com/matzehuels/c4x/pkg/c4"

// Colors is the fill, stroke and text colour of one kind of box.
type Colors struct {
	Fill   string `toml:"fill" json:"fill"`
	Stroke string `toml:"stroke" json:"stroke"`
	Text   string `toml:"text" json:"text"`
}

// Theme is a complete colour and typography table.
type Theme struct {
	Name        string `toml:"name" json:"name"`
	DisplayName string `toml:"display_name" json:"displayName"`
	Description string `toml:"description" json:"description"`

	Person         Colors `toml:"person" json:"person"`
	SoftwareSystem Colors `toml:"software_system" json:"softwareSystem"`
	ExternalSystem Colors `toml:"external_system" json:"externalSystem"`
	Container      Colors `toml:"container" json:"container"`
	Component      Colors `toml:"component" json:"component"`

	// Optional external variants. When nil, ExternalSystem is used.
	ExternalPerson    *Colors `toml:"external_person" json:"externalPerson,omitempty"`
	ExternalContainer *Colors `toml:"external_container" json:"externalContainer,omitempty"`
	ExternalComponent *Colors `toml:"external_component" json:"externalComponent,omitempty"`

	// DeploymentNode colours deployment clusters. When nil, a neutral grey
	// outline is used.
	DeploymentNode *Colors `toml:"deployment_node" json:"deploymentNode,omitempty"`

	// Relationship uses Stroke for connectors and boundaries and Text for
	// their labels. Fill is ignored.
	Relationship Colors `toml:"relationship" json:"relationship"`
	Background   string `toml:"background" json:"background"`

	BorderRadius float64 `toml:"border_radius" json:"borderRadius"`
	BorderWidth  float64 `toml:"border_width" json:"borderWidth"`
	FontSize     float64 `toml:"font_size" json:"fontSize"`
	FontFamily   string  `toml:"font_family" json:"fontFamily"`
	Shadow       bool    `toml:"shadow" json:"shadow"`
}

var defaultDeployment = Colors{Fill: "#FFFFFF", Stroke: "#666666", Text: "#666666"}

// ElementColors returns the colours for a box of type typ.
func (t Theme) ElementColors(typ c4.ElementType, external bool) Colors {
	if typ == c4.DeploymentNode {
		return t.DeploymentColors()
	}
	if !external {
		switch typ {
		case c4.Person:
			return t.Person
		case c4.Container:
			return t.Container
		case c4.Component:
			return t.Component
		}
		return t.SoftwareSystem
	}

	var variant *Colors
	switch typ {
	case c4.Person:
		variant = t.ExternalPerson
	case c4.Container:
		variant = t.ExternalContainer
	case c4.Component:
		variant = t.ExternalComponent
	}
	if variant != nil {
		return *variant
	}
	return t.ExternalSystem
}

// DeploymentColors returns the colours of deployment node clusters.
func (t Theme) DeploymentColors() Colors {
	if t.DeploymentNode != nil {
		return *t.DeploymentNode
	}
	return defaultDeployment
}
