package bench

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"File Name",
	"Chain",
	"Units",
	"Sequential Time (ns)",
	"SNR Sequential",
	"MSE Sequential",
	"Parallel Time (ns)",
	"SNR Parallel",
	"MSE Parallel",
	"Speedup",
	"Equivalent",
}

// WriteCSV writes a header row followed by one row per report.
func WriteCSV(w io.Writer, reports ...Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range reports {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r Report) record() []string {
	return []string{
		r.Name,
		r.Chain,
		strconv.Itoa(r.Units),
		strconv.FormatInt(r.Sequential.Elapsed.Nanoseconds(), 10),
		formatFloat(r.Sequential.Score.SNR),
		formatFloat(r.Sequential.Score.MSE),
		strconv.FormatInt(r.Parallel.Elapsed.Nanoseconds(), 10),
		formatFloat(r.Parallel.Score.SNR),
		formatFloat(r.Parallel.Score.MSE),
		strconv.FormatFloat(r.Speedup(), 'f', 3, 64),
		strconv.FormatBool(r.Equivalent),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
