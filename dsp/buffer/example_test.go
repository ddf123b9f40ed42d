package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

func ExampleBuffer() {
	b, _ := buffer.FromGrid(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b.Set(1, 1, 0)

	fmt.Println(b.Shape(), b.Row(1))
	fmt.Println(b.Len(), b.At(0, 2))

	// Output:
	// [2x3] [4 0 6]
	// 6 3
}
