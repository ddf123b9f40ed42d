package adapter

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// DefaultLogGate keeps WARNING and more severe records.
const DefaultLogGate = 1.0

// ErrRecordMismatch is returned when Encode receives a buffer whose length
// differs from the number of decoded records.
var ErrRecordMismatch = errors.New("adapter: buffer does not match decoded records")

// Record is one parsed log line of the form "TIMESTAMP LEVEL MESSAGE".
type Record struct {
	Timestamp string
	Level     string
	Message   string
}

func (r Record) String() string {
	return r.Timestamp + " " + r.Level + " " + r.Message
}

// Severity maps a log level to its score.
func Severity(level string) float64 {
	switch strings.ToUpper(level) {
	case "CRITICAL":
		return 3
	case "ERROR":
		return 2
	case "WARNING", "WARN":
		return 1
	default:
		return 0
	}
}

// Logs turns a log file into a vector of severity scores.
//
// Decode drops duplicate lines, keeps only lines mentioning ERROR or
// CRITICAL and parses the rest into records. The records are retained so
// Encode can write back the lines whose processed score reaches Gate.
type Logs struct {
	// Gate is the minimum score a record needs to be written by Encode.
	// Zero means DefaultLogGate.
	Gate float64

	mu      sync.Mutex
	records []Record
}

// Records returns a copy of the records parsed by the last Decode.
func (l *Logs) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Record(nil), l.records...)
}

// Decode reads the log file at path.
func (l *Logs) Decode(path string) (*buffer.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, decodeErr(path, err)
	}
	defer f.Close()

	var records []Record
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		if !critical(line) {
			continue
		}
		if rec, ok := parseRecord(line); ok {
			records = append(records, rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, decodeErr(path, err)
	}

	out := buffer.New(len(records))
	s := out.Samples()
	for i, rec := range records {
		s[i] = Severity(rec.Level)
	}

	l.mu.Lock()
	l.records = records
	l.mu.Unlock()
	return out, nil
}

// Encode writes the records whose score in b reaches the gate.
func (l *Logs) Encode(b *buffer.Buffer, path string) error {
	records := l.Records()
	scores := b.Samples()
	if len(scores) != len(records) {
		return encodeErr(path, fmt.Errorf("%w: %d scores, %d records", ErrRecordMismatch, len(scores), len(records)))
	}

	gate := l.Gate
	if gate <= 0 {
		gate = DefaultLogGate
	}

	f, err := os.Create(path)
	if err != nil {
		return encodeErr(path, err)
	}
	w := bufio.NewWriter(f)
	for i, rec := range records {
		if scores[i] < gate {
			continue
		}
		if _, err = w.WriteString(rec.String() + "\n"); err != nil {
			break
		}
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return encodeErr(path, err)
}

func critical(line string) bool {
	return strings.Contains(line, "ERROR") || strings.Contains(line, "CRITICAL")
}

func parseRecord(line string) (Record, bool) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return Record{}, false
	}
	return Record{Timestamp: parts[0], Level: parts[1], Message: parts[2]}, true
}
