package compiler_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/stackgraph/pkg/compiler"
	apperr "github.com/matzehuels/stackgraph/pkg/errors"
)

func ExampleCompiler_Compile() {
	c, err := compiler.New()
	if err != nil {
		panic(err)
	}
	res, err := c.Compile(context.Background(), "a(Start) --> b[End]\nb --> c")
	if err != nil {
		panic(err)
	}
	for i := 0; i < res.Diagram.NodeCount(); i++ {
		p := res.Diagram.Placement(i)
		fmt.Printf("%s rank=%d order=%d\n", res.Diagram.Node(i).ID, p.Rank, p.Order)
	}
	// Output:
	// a rank=0 order=0
	// b rank=1 order=0
	// c rank=2 order=0
}

func ExampleGenerate_error() {
	_, err := compiler.Generate("a -->")
	fmt.Println(apperr.GetCode(err))
	fmt.Println(apperr.UserMessage(err))
	// Output:
	// INCOMPLETE_EDGE
	// invalid diagram: line 1: edge from "a" is missing its target
}
