package chunk_test

import (
	"fmt"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/chunk"
)

func ExampleSplit() {
	b := buffer.FromSlice([]float64{1, 2, 3, 4, 5, 6, 7})
	chunks, _ := chunk.Split(b, 3)
	for _, c := range chunks {
		fmt.Println(c.Index, c.Col, c.Data.Samples())
	}

	merged, _ := chunk.Merge(chunks, b.Shape())
	fmt.Println(merged.Samples())

	// Output:
	// 0 0 [1 2 3]
	// 1 3 [4 5 6]
	// 2 6 [7]
	// [1 2 3 4 5 6 7]
}
