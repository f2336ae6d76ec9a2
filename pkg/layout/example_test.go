package layout_test

import (
	"fmt"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/dsl"
	"github.com/matzehuels/c4x/pkg/layout"
)

func ExampleLayoutView() {
	res, _ := dsl.Parse("graph LR\nWeb[Web App<br/>Container]\nApi[API<br/>Container]\nWeb --> Api\n")
	m, _ := c4.Build(res, "example")

	r := layout.LayoutView(m.View())
	for _, pe := range r.Elements {
		fmt.Printf("%s at (%.0f, %.0f)\n", pe.Element.ID, pe.X, pe.Y)
	}
	fmt.Printf("size %.0fx%.0f\n", r.Width, r.Height)
	// Output:
	// Web at (80, 80)
	// Api at (440, 80)
	// size 760x290
}
