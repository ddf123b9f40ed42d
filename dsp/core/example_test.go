package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-chunkflow/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithChunkSize(256),
		core.WithChunkGrid(64, 64),
		core.WithWorkers(4),
	)

	fmt.Printf("chunk=%d grid=%dx%d workers=%d\n", cfg.ChunkSize, cfg.ChunkRows, cfg.ChunkCols, cfg.Workers)

	// Output:
	// chunk=256 grid=64x64 workers=4
}
