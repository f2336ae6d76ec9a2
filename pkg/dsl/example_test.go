package dsl_test

import (
	"fmt"

	"github.com/matzehuels/c4x/pkg/dsl"
)

func ExampleParse() {
	src := `%%{ c4: container }%%
Customer[Customer<br/>Person]
Container(api, "API", "Go")
Customer -->|Uses| api
`
	res, err := dsl.Parse(src)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("view:", res.View, "direction:", res.Direction)
	for _, e := range res.Elements {
		fmt.Printf("%s (%s) line %d\n", e.ID, e.Type, e.Pos.Line)
	}
	r := res.Relationships[0]
	fmt.Printf("%s %s %s %q\n", r.From, r.Arrow, r.To, r.Label)
	// Output:
	// view: container direction: TB
	// Customer (Person) line 2
	// api (Container) line 3
	// Customer --> api "Uses"
}

func ExampleParse_error() {
	_, err := dsl.Parse("graph TB\nCustomer[Customer]\n")
	fmt.Println(err)
	// Output:
	// SYNTAX_ERROR: line 2, column 9: node "Customer" is missing an element type, expected Customer[Label<br/>Type]
}
