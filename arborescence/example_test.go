package arborescence_test

import (
	"fmt"
	"math"

	"github.com/katalvlaran/deptree/arborescence"
	"github.com/katalvlaran/deptree/matrix"
)

// ExampleMaximum decodes a three-vertex graph whose best incoming arcs form a
// cycle between vertices 1 and 2; contraction breaks it at the cheaper arc.
func ExampleMaximum() {
	weights := [][]float64{
		{math.Inf(-1), 5, 1},
		{math.Inf(-1), math.Inf(-1), 10},
		{math.Inf(-1), 10, math.Inf(-1)},
	}
	m, _ := matrix.NewDense(3, 3)
	for i, row := range weights {
		for j, w := range row {
			_ = m.Set(i, j, w)
		}
	}

	parent, total, err := arborescence.Maximum(m, 0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("parents=%v total=%g\n", parent, total)
	// Output: parents=[-1 0 1] total=15
}
