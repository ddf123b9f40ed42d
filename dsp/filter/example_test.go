package filter_test

import (
	"fmt"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/filter"
)

func ExampleLowPass() {
	lp, _ := filter.NewLowPass(0.5)
	out, _ := lp.Apply(buffer.FromSlice([]float64{1, 0, 1, 0}))
	fmt.Println(out.Samples())

	primed, _ := filter.NewLowPass(0.5, filter.WithPrimedState())
	out, _ = primed.Apply(buffer.FromSlice([]float64{1, 0, 1, 0}))
	fmt.Println(out.Samples())

	// Output:
	// [0 0 0.5 0.25]
	// [1 0.5 0.75 0.375]
}

func ExamplePass() {
	p, _ := filter.NewPass(filter.KindHighPass, 0, 0.5)
	in := buffer.FromSlice([]float64{2, 2, 2})

	out, _ := p.Apply(in)
	fmt.Println(out.Samples())

	p.SetAdvanced(filter.Identity{})
	out, _ = p.Apply(in)
	fmt.Println(out.Samples())

	p.ClearAdvanced()
	out, _ = p.Apply(in)
	fmt.Println(out.Samples())

	// Output:
	// [2 1 1]
	// [2 2 2]
	// [2 1 1]
}
