package adapter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// Text reads and writes sample dumps with one value per line. Files ending
// in .zst are zstd streams and files ending in .lz4 are lz4 frames. Blank
// lines are skipped on decode.
type Text struct{}

// Decode reads the sample dump at path.
func (Text) Decode(path string) (*buffer.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, decodeErr(path, err)
	}
	defer f.Close()

	r, closeFn, err := decompressor(path, f)
	if err != nil {
		return nil, decodeErr(path, err)
	}
	defer closeFn()

	var samples []float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		field := strings.TrimSpace(sc.Text())
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, decodeErr(path, fmt.Errorf("line %d: %w", line, err))
		}
		samples = append(samples, v)
	}
	if err := sc.Err(); err != nil {
		return nil, decodeErr(path, err)
	}
	return buffer.FromSlice(samples), nil
}

// Encode writes every sample of b on its own line. Grids are written row
// by row.
func (Text) Encode(b *buffer.Buffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return encodeErr(path, err)
	}

	w, closeFn, err := compressor(path, f)
	if err != nil {
		f.Close()
		return encodeErr(path, err)
	}
	bw := bufio.NewWriter(w)
	for _, v := range b.Samples() {
		if err = writeSample(bw, v); err != nil {
			break
		}
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return encodeErr(path, err)
}

func writeSample(w *bufio.Writer, v float64) error {
	if _, err := w.WriteString(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

func decompressor(path string, r io.Reader) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	case ".lz4":
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}

func compressor(path string, w io.Writer) (io.Writer, func() error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, nil, err
		}
		return enc, enc.Close, nil
	case ".lz4":
		zw := lz4.NewWriter(w)
		return zw, zw.Close, nil
	default:
		return w, func() error { return nil }, nil
	}
}
