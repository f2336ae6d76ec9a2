package c4

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// elementTypes maps normalised raw type names to the closed vocabulary.
// Adding a new spelling is a one-line change here.
var elementTypes = map[string]ElementType{
	"person":          Person,
	"person_ext":      Person,
	"software system": SoftwareSystem,
	"softwaresystem":  SoftwareSystem,
	"system":          SoftwareSystem,
	"system_ext":      SoftwareSystem,
	"systemdb":        SoftwareSystem,
	"systemdb_ext":    SoftwareSystem,
	"container":       Container,
	"container_ext":   Container,
	"containerdb":     Container,
	"containerdb_ext": Container,
	"component":       Component,
	"component_ext":   Component,
	"componentdb":     Component,
	"componentdb_ext": Component,
	"node":            DeploymentNode,
	"deployment node": DeploymentNode,
	"deployment_node": DeploymentNode,
	"deploymentnode":  DeploymentNode,
}

var relTypes = map[string]RelType{
	"-->":  RelUses,
	"-.->": RelAsync,
	"==>":  RelSync,
}

// foldKey case-folds raw and collapses whitespace runs to single spaces.
func foldKey(raw string) string {
	return strings.Join(strings.Fields(cases.Fold().String(raw)), " ")
}

// NormalizeType maps a raw element type such as "Software System",
// "container_ext" or "SystemDb" onto the closed vocabulary.
func NormalizeType(raw string) (ElementType, bool) {
	t, ok := elementTypes[foldKey(raw)]
	return t, ok
}

// RelTypeOf maps an arrow glyph to its relationship type.
func RelTypeOf(arrow string) (RelType, bool) {
	t, ok := relTypes[arrow]
	return t, ok
}

// derivedTags returns the tags implied by a raw type name: External for
// *_ext spellings and Database for *db spellings.
func derivedTags(raw string) []string {
	key := foldKey(raw)
	var tags []string
	if strings.Contains(key, "_ext") {
		tags = append(tags, TagExternal)
	}
	if strings.Contains(key, "db") {
		tags = append(tags, TagDatabase)
	}
	return tags
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// boundaryID derives a stable boundary id from its label and index.
func boundaryID(label string, index int) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "-") +
		"-boundary-" + strconv.Itoa(index)
}
