package chunk

import (
	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// Option configures Split and Split2D.
type Option func(*splitConfig)

type splitConfig struct {
	pool *buffer.Pool
}

// WithPool draws chunk buffers from p. Return them with Release once the
// chunks are no longer needed.
func WithPool(p *buffer.Pool) Option {
	return func(c *splitConfig) { c.pool = p }
}

// Split cuts a buffer into chunks of size samples along its flat sample
// order. Chunk buffers are copies; the input is not modified.
// A 2-D buffer is split row by row into 1 x size tiles.
func Split(b *buffer.Buffer, size int, opts ...Option) ([]Chunk, error) {
	l, err := NewLayout(b.Shape(), size)
	if err != nil {
		return nil, err
	}
	return SplitLayout(b, l, opts...), nil
}

// Split2D tiles a buffer with rows x cols chunks in row-major order.
func Split2D(b *buffer.Buffer, rows, cols int, opts ...Option) ([]Chunk, error) {
	l, err := NewGridLayout(b.Shape(), rows, cols)
	if err != nil {
		return nil, err
	}
	return SplitLayout(b, l, opts...), nil
}

// SplitLayout cuts b according to l, which must describe b's shape.
func SplitLayout(b *buffer.Buffer, l Layout, opts ...Option) []Chunk {
	var cfg splitConfig
	for _, o := range opts {
		o(&cfg)
	}

	n := l.Count()
	chunks := make([]Chunk, n)
	for i := 0; i < n; i++ {
		r0, c0 := l.Origin(i)
		shape := l.ChunkShape(i)

		var cb *buffer.Buffer
		if cfg.pool != nil {
			cb = cfg.pool.Get(shape)
		} else {
			cb = buffer.NewShape(shape)
		}
		for r := 0; r < shape.Rows; r++ {
			src := b.Row(r0 + r)
			copy(cb.Row(r), src[c0:c0+shape.Cols])
		}
		chunks[i] = Chunk{Index: i, Row: r0, Col: c0, Data: cb}
	}
	return chunks
}

// Release returns chunk buffers to p. The chunks must not be used afterwards.
func Release(p *buffer.Pool, chunks []Chunk) {
	if p == nil {
		return
	}
	for i := range chunks {
		p.Put(chunks[i].Data)
		chunks[i].Data = nil
	}
}
