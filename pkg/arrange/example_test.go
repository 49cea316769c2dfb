package arrange_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
)

func Example() {
	coll := arrange.Collection{
		{Index: 0, Rune: 'N'},
		{Index: 1, Rune: 'E'},
		{Index: 2, Rune: 'S'},
		{Index: 3, Rune: 'W'},
	}

	d := arrange.NewDispatcher(arrange.FixedViewer{0, 0, 600})
	_ = d.SetCollection(coll)

	round := func(v float64) float64 {
		if r := math.Round(v); r != 0 {
			return r
		}
		return 0
	}
	for _, o := range coll {
		fmt.Printf("%c (%.0f, %.0f, %.0f)\n", o.Rune, round(o.Position[0]), round(o.Position[1]), round(o.Position[2]))
	}
	// Output:
	// N (200, 0, 0)
	// E (0, 0, 200)
	// S (-200, 0, 0)
	// W (0, 0, -200)
}

func ExampleParseShape() {
	s, err := arrange.ParseShape("torus-knot", 3, 5)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s.Name(), s.Animated())
	// Output: torus-klein-knot true
}
