package adapter

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// ECG recordings store 16-bit little-endian samples with a 2048 baseline
// and 5 units per 1000 counts.
const (
	ecgBaseline = 2048
	ecgGain     = 5.0 / 1000.0

	// DefaultECGRate is written to new headers when ECG.SampleRate is zero.
	DefaultECGRate = 360
)

var errBadHeader = errors.New("malformed .hea header")

// ECG decodes MIT-style .dat recordings. The sample count comes from the
// fourth field of the first line of the .hea file next to the .dat file.
type ECG struct {
	// SampleRate is written to the header by Encode.
	SampleRate int
}

// HeaderPath returns the header file that belongs to a .dat path.
func HeaderPath(datPath string) string {
	return strings.TrimSuffix(datPath, filepath.Ext(datPath)) + ".hea"
}

// Decode reads the recording at path and its header.
func (ECG) Decode(path string) (*buffer.Buffer, error) {
	n, err := readECGHeader(HeaderPath(path))
	if err != nil {
		return nil, decodeErr(path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, decodeErr(path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, decodeErr(path, err)
	}
	if int64(n) > st.Size()/2 {
		return nil, decodeErr(path, fmt.Errorf("%w: %d samples in %d bytes", errBadHeader, n, st.Size()))
	}

	raw := make([]uint16, n)
	if err := binary.Read(bufio.NewReader(f), binary.LittleEndian, raw); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, decodeErr(path, fmt.Errorf("reading %d samples: %w", n, err))
	}

	out := buffer.New(n)
	s := out.Samples()
	for i, r := range raw {
		s[i] = float64(int(r)-ecgBaseline) * ecgGain
	}
	return out, nil
}

// Encode writes b to path and a matching header. Values are quantized
// back to raw counts and clamped to the 16-bit range.
func (e ECG) Encode(b *buffer.Buffer, path string) error {
	samples := b.Samples()
	raw := make([]uint16, len(samples))
	for i, v := range samples {
		c := math.Round(v/ecgGain) + ecgBaseline
		raw[i] = uint16(quantize(c, 0, math.MaxUint16))
	}

	f, err := os.Create(path)
	if err != nil {
		return encodeErr(path, err)
	}
	w := bufio.NewWriter(f)
	err = binary.Write(w, binary.LittleEndian, raw)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return encodeErr(path, err)
	}

	rate := e.SampleRate
	if rate <= 0 {
		rate = DefaultECGRate
	}
	record := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	header := fmt.Sprintf("%s 1 %d %d\n", record, rate, len(raw))
	return encodeErr(path, os.WriteFile(HeaderPath(path), []byte(header), 0o644))
}

func readECGHeader(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return 0, fmt.Errorf("%w: %q", errBadHeader, strings.TrimSpace(line))
	}
	n, err := strconv.Atoi(fields[3])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: sample count %q", errBadHeader, fields[3])
	}
	return n, nil
}
