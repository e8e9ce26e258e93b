// Writer implementations printing snapshots to STDOUT
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// JSONStdoutWriter prints snapshot rows as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs a single row in JSON format.
func (w *JSONStdoutWriter) Write(row Row) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteBatch outputs multiple rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []Row) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// StdoutWriter prints human-readable snapshot lines to STDOUT.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// Write outputs a single row as a log line.
func (w *StdoutWriter) Write(row Row) error {
	label := row.Scenario
	if label == "" {
		label = "-"
	}
	fmt.Fprintf(w.out, "[%s] scenario=%s detections=%d points=%d peak=%.3f\n",
		row.Timestamp.Format(time.RFC3339), label, row.DetectionCount, row.ProfilePoints, row.PeakPower)
	return nil
}
