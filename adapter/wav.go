package adapter

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/core"
)

// DefaultSampleRate is used when encoding audio without an explicit rate.
const DefaultSampleRate = 44100

var errInvalidWAV = errors.New("not a valid PCM wav file")

// WAV decodes PCM wave files into mono samples in [-1, 1]. Multi-channel
// frames are averaged. Encoding writes 16-bit mono PCM.
type WAV struct {
	// SampleRate is written by Encode. Zero means DefaultSampleRate.
	SampleRate int
}

// Decode reads the wave file at path.
func (w *WAV) Decode(path string) (*buffer.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, decodeErr(path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, decodeErr(path, errInvalidWAV)
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, decodeErr(path, err)
	}

	chans := int(dec.NumChans)
	if chans < 1 {
		chans = 1
	}
	depth := int(dec.BitDepth)
	if depth < 8 || depth > 32 {
		return nil, decodeErr(path, fmt.Errorf("unsupported bit depth %d", depth))
	}

	frames := len(pcm.Data) / chans
	out := buffer.New(frames)
	s := out.Samples()
	for i := range frames {
		var sum float64
		for c := range chans {
			sum += normalizePCM(pcm.Data[i*chans+c], depth)
		}
		s[i] = sum / float64(chans)
	}
	return out, nil
}

// Encode writes b as a 16-bit mono wave file. Samples are clipped to
// [-1, 1].
func (w *WAV) Encode(b *buffer.Buffer, path string) error {
	rate := w.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}

	samples := b.Samples()
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(math.Round(quantize(v, -1, 1) * math.MaxInt16))
	}

	f, err := os.Create(path)
	if err != nil {
		return encodeErr(path, err)
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	})
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return encodeErr(path, err)
}

// normalizePCM maps an integer sample to [-1, 1]. 8-bit wave data is
// unsigned, wider depths are signed.
func normalizePCM(v, depth int) float64 {
	if depth == 8 {
		return float64(v-128) / 128
	}
	return float64(v) / float64(int64(1)<<(depth-1))
}

// quantize clamps v to [lo, hi] and maps NaN to 0.
func quantize(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return core.Clamp(v, lo, hi)
}
