package pipeline

import (
	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/dsl"
)

// Parse runs the grammar parser and the model builder. Errors keep their
// *errors.Error type, so callers can branch on errors.KindOf and report
// errors.PosOf.
func Parse(src, workspace string) (*c4.Model, error) {
	res, err := dsl.Parse(src)
	if err != nil {
		return nil, err
	}
	return c4.Build(res, workspace)
}
