package theme

import (
	"slices"

	"github.com/matzehuels/c4x/pkg/errors"
)

func outline(color string) Colors { return Colors{Fill: "#FFFFFF", Stroke: color, Text: color} }

func ptr(c Colors) *Colors { return &c }

// Classic follows the official C4 notation: white boxes with coloured
// borders.
var Classic = Theme{
	Name:              "classic",
	DisplayName:       "Classic",
	Description:       "Official C4 Model style with white boxes and coloured borders",
	Person:            outline("#438DD5"),
	SoftwareSystem:    outline("#1168BD"),
	ExternalSystem:    outline("#999999"),
	Container:         outline("#438DD5"),
	Component:         outline("#85BBF0"),
	ExternalPerson:    ptr(outline("#999999")),
	ExternalContainer: ptr(outline("#999999")),
	ExternalComponent: ptr(Colors{Fill: "#FFFFFF", Stroke: "#CCCCCC", Text: "#999999"}),
	DeploymentNode:    ptr(outline("#666666")),
	Relationship:      Colors{Stroke: "#707070", Text: "#707070"},
	Background:        "#FFFFFF",
	BorderRadius:      10,
	BorderWidth:       2,
	FontSize:          14,
	FontFamily:        "Arial, sans-serif",
}

// Modern uses vibrant borders, rounder corners and drop shadows.
var Modern = Theme{
	Name:           "modern",
	DisplayName:    "Modern",
	Description:    "Vibrant colours with rounded corners and shadows",
	Person:         outline("#6366F1"),
	SoftwareSystem: outline("#3B82F6"),
	ExternalSystem: outline("#9CA3AF"),
	Container:      outline("#06B6D4"),
	Component:      outline("#8B5CF6"),
	DeploymentNode: ptr(Colors{Fill: "#F3F4F6", Stroke: "#4B5563", Text: "#4B5563"}),
	Relationship:   Colors{Stroke: "#6B7280", Text: "#6B7280"},
	Background:     "#FFFFFF",
	BorderRadius:   12,
	BorderWidth:    2,
	FontSize:       14,
	FontFamily:     "Helvetica, Arial, sans-serif",
	Shadow:         true,
}

// Muted is a grayscale theme suited to printing.
var Muted = Theme{
	Name:           "muted",
	DisplayName:    "Muted",
	Description:    "Grayscale minimalist, good for black and white printing",
	Person:         outline("#4A5568"),
	SoftwareSystem: outline("#718096"),
	ExternalSystem: outline("#A0AEC0"),
	Container:      outline("#718096"),
	Component:      outline("#A0AEC0"),
	Relationship:   Colors{Stroke: "#4A5568", Text: "#4A5568"},
	Background:     "#FFFFFF",
	BorderRadius:   8,
	BorderWidth:    2,
	FontSize:       13,
	FontFamily:     "Georgia, serif",
}

// HighContrast maximises contrast with thick borders and larger text.
var HighContrast = Theme{
	Name:           "high-contrast",
	DisplayName:    "High Contrast",
	Description:    "Maximum visibility with thick borders and large text",
	Person:         outline("#000000"),
	SoftwareSystem: outline("#0000CC"),
	ExternalSystem: outline("#666666"),
	Container:      outline("#006600"),
	Component:      outline("#CC0000"),
	DeploymentNode: ptr(outline("#000000")),
	Relationship:   Colors{Stroke: "#000000", Text: "#000000"},
	Background:     "#FFFFFF",
	BorderRadius:   8,
	BorderWidth:    3,
	FontSize:       16,
	FontFamily:     "Arial, sans-serif",
}

// Default is the theme used when none is requested.
var Default = Classic

var builtins = []Theme{Classic, Modern, Muted, HighContrast}

// Names returns the built-in theme names in presentation order.
func Names() []string {
	names := make([]string, len(builtins))
	for i, t := range builtins {
		names[i] = t.Name
	}
	return names
}

// All returns the built-in themes in presentation order.
func All() []Theme { return slices.Clone(builtins) }

// Lookup returns the built-in theme called name. An empty name yields
// [Default].
func Lookup(name string) (Theme, error) {
	if name == "" {
		return Default, nil
	}
	for _, t := range builtins {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q (available: %v)", name, Names())
}
