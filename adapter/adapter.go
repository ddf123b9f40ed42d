// Package adapter converts domain files into sample buffers and back.
//
// Every format decodes into a *buffer.Buffer that the engine can chunk:
// audio, ECG recordings, plain sample dumps and log severity scores become
// vectors, images become grids. Decode and encode failures are reported as
// *DecodeError and *EncodeError carrying the path and the cause.
package adapter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// ErrUnsupportedFormat is returned by ForPath for unknown extensions.
var ErrUnsupportedFormat = errors.New("adapter: unsupported format")

// Decoder reads a file into a buffer.
type Decoder interface {
	Decode(path string) (*buffer.Buffer, error)
}

// Encoder writes a buffer to a file.
type Encoder interface {
	Encode(b *buffer.Buffer, path string) error
}

// Codec decodes and encodes one file format.
type Codec interface {
	Decoder
	Encoder
}

// DecodeError reports a file that could not be read.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("adapter: decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a buffer that could not be written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("adapter: encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ForPath returns a codec with default settings for the file extension of
// path. Compressed sample dumps (.zst, .lz4) and plain ones (.txt) share
// the text codec.
func ForPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return &WAV{}, nil
	case ".png":
		return &PNG{}, nil
	case ".dat":
		return &ECG{}, nil
	case ".txt", ".zst", ".lz4":
		return &Text{}, nil
	case ".log":
		return &Logs{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func decodeErr(path string, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Path: path, Err: err}
}

func encodeErr(path string, err error) error {
	if err == nil {
		return nil
	}
	return &EncodeError{Path: path, Err: err}
}
