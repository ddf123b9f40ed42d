package adapter

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want Codec
	}{
		{"a.wav", &WAV{}},
		{"dir/B.WAV", &WAV{}},
		{"img.png", &PNG{}},
		{"100.dat", &ECG{}},
		{"s.txt", &Text{}},
		{"s.txt.zst", &Text{}},
		{"s.lz4", &Text{}},
		{"apache.log", &Logs{}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ForPath(tt.path)
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}

	_, err := ForPath("data.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestErrorsWrapCause(t *testing.T) {
	_, err := Text{}.Decode(tempPath(t, "missing.txt"))

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Path, "missing.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "adapter: decode")

	err = Text{}.Encode(buffer.New(1), filepath.Join(t.TempDir(), "no", "such", "dir.txt"))
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWAVRoundTrip(t *testing.T) {
	path := tempPath(t, "tone.wav")
	in := buffer.FromSlice([]float64{0, 0.5, -0.5, 1, -1, 2, -2})

	require.NoError(t, (&WAV{SampleRate: 8000}).Encode(in, path))
	out, err := (&WAV{}).Decode(path)
	require.NoError(t, err)

	want := []float64{0, 0.5, -0.5, 1, -1, 1, -1}
	require.Equal(t, len(want), out.Len())
	for i, v := range out.Samples() {
		assert.InDelta(t, want[i], v, 2.0/32768, "sample %d", i)
	}
}

func TestWAVAveragesChannels(t *testing.T) {
	path := tempPath(t, "stereo.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, 8000, 16, 2, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 8000},
		Data:           []int{1000, 3000, -2000, 2000, 16384, 16384},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	out, err := (&WAV{}).Decode(path)
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	assert.InDelta(t, 2000.0/32768, out.Samples()[0], 1e-12)
	assert.InDelta(t, 0, out.Samples()[1], 1e-12)
	assert.InDelta(t, 0.5, out.Samples()[2], 1e-12)
}

func TestWAVRejectsGarbage(t *testing.T) {
	path := tempPath(t, "bad.wav")
	writeFile(t, path, "this is not a riff file at all")

	_, err := (&WAV{}).Decode(path)
	var de *DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestPNGRoundTrip(t *testing.T) {
	path := tempPath(t, "grid.png")
	in, err := buffer.FromRows([][]float64{
		{0, 127.6, 300},
		{-5, 42, 255},
	})
	require.NoError(t, err)

	require.NoError(t, PNG{}.Encode(in, path))
	out, err := PNG{}.Decode(path)
	require.NoError(t, err)

	assert.Equal(t, buffer.Grid(2, 3), out.Shape())
	assert.Equal(t, []float64{0, 128, 255, 0, 42, 255}, out.Samples())
}

func TestPNGUsesRedChannel(t *testing.T) {
	path := tempPath(t, "color.png")
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 200, G: 10, B: 10, A: 255})
	img.Set(1, 0, color.RGBA{R: 7, G: 250, B: 90, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	out, err := PNG{}.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{200, 7}, out.Samples())
}

func TestECGDecode(t *testing.T) {
	dir := t.TempDir()
	dat := filepath.Join(dir, "100.dat")
	writeFile(t, filepath.Join(dir, "100.hea"), "100 2 360 3\n100.dat 212 200 11 1024\n")
	// 2048, 3048 and 1048 little-endian.
	require.NoError(t, os.WriteFile(dat, []byte{0x00, 0x08, 0xE8, 0x0B, 0x18, 0x04, 0xFF}, 0o644))

	out, err := ECG{}.Decode(dat)
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	assert.InDeltaSlice(t, []float64{0, 5, -5}, out.Samples(), 1e-12)
}

func TestECGRoundTrip(t *testing.T) {
	dat := tempPath(t, "rec.dat")
	in := buffer.FromSlice([]float64{0, 1.25, -3.5, 0.005})

	require.NoError(t, ECG{SampleRate: 250}.Encode(in, dat))
	header, err := os.ReadFile(HeaderPath(dat))
	require.NoError(t, err)
	assert.Equal(t, "rec 1 250 4\n", string(header))

	out, err := ECG{}.Decode(dat)
	require.NoError(t, err)
	assert.InDeltaSlice(t, in.Samples(), out.Samples(), 1e-12)
}

func TestECGErrors(t *testing.T) {
	dir := t.TempDir()
	dat := filepath.Join(dir, "short.dat")
	require.NoError(t, os.WriteFile(dat, []byte{0x00, 0x08}, 0o644))

	_, err := ECG{}.Decode(dat)
	assert.ErrorIs(t, err, fs.ErrNotExist, "missing header")

	writeFile(t, HeaderPath(dat), "short 1 360 4\n")
	_, err = ECG{}.Decode(dat)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	writeFile(t, HeaderPath(dat), "short 1\n")
	_, err = ECG{}.Decode(dat)
	assert.ErrorIs(t, err, errBadHeader)

	writeFile(t, HeaderPath(dat), "short 1 360 many\n")
	_, err = ECG{}.Decode(dat)
	assert.ErrorIs(t, err, errBadHeader)

	writeFile(t, HeaderPath(dat), "short 1 360 4611686018427387904\n")
	_, err = ECG{}.Decode(dat)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.ErrorIs(t, err, errBadHeader)
}

func TestTextRoundTrip(t *testing.T) {
	in := buffer.FromSlice([]float64{0, -3.25, 1e-9, 12345.678, 0.1})

	for _, name := range []string{"s.txt", "s.zst", "s.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := tempPath(t, name)
			require.NoError(t, Text{}.Encode(in, path))

			out, err := Text{}.Decode(path)
			require.NoError(t, err)
			assert.Equal(t, in.Samples(), out.Samples())
		})
	}
}

func TestTextCompressedIsNotPlain(t *testing.T) {
	in := buffer.FromSlice([]float64{1, 2, 3})
	path := tempPath(t, "s.zst")
	require.NoError(t, Text{}.Encode(in, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "1\n2\n3\n", string(raw))
}

func TestTextDecode(t *testing.T) {
	path := tempPath(t, "s.txt")
	writeFile(t, path, "1\n\n  2.5 \n-4\n")

	out, err := Text{}.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, -4}, out.Samples())

	writeFile(t, path, "1\noops\n")
	_, err = Text{}.Decode(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

const sampleLog = `t1 ERROR disk full
t1 ERROR disk full
t2 INFO all good
t3 CRITICAL kernel panic
t4 WARNING low ERROR budget
ERROR
`

func TestLogsDecode(t *testing.T) {
	path := tempPath(t, "app.log")
	writeFile(t, path, sampleLog)

	var l Logs
	out, err := l.Decode(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 3, 1}, out.Samples())
	assert.Equal(t, []Record{
		{Timestamp: "t1", Level: "ERROR", Message: "disk full"},
		{Timestamp: "t3", Level: "CRITICAL", Message: "kernel panic"},
		{Timestamp: "t4", Level: "WARNING", Message: "low ERROR budget"},
	}, l.Records())
}

func TestLogsEncodeGate(t *testing.T) {
	in := tempPath(t, "app.log")
	writeFile(t, in, sampleLog)

	l := Logs{Gate: 1.5}
	_, err := l.Decode(in)
	require.NoError(t, err)

	out := tempPath(t, "kept.log")
	require.NoError(t, l.Encode(buffer.FromSlice([]float64{2, 0.5, 1.5}), out))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "t1 ERROR disk full\nt4 WARNING low ERROR budget\n", string(got))

	err = l.Encode(buffer.New(2), out)
	assert.ErrorIs(t, err, ErrRecordMismatch)
	var ee *EncodeError
	assert.True(t, errors.As(err, &ee))
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, 3.0, Severity("CRITICAL"))
	assert.Equal(t, 2.0, Severity("error"))
	assert.Equal(t, 1.0, Severity("WARN"))
	assert.Equal(t, 0.0, Severity("INFO"))
}
