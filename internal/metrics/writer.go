package metrics

// Decoded record output (CSV) and summary formatting

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tturner/meshdiag/internal/apdu"
)

var baseColumns = []string{"timestamp", "source", "version", "size", "error_kind", "error"}

// Writer streams decoded records as CSV rows. Columns are fixed by the schema
// given at construction: metadata first, then layout fields, then derived
// fields.
type Writer struct {
	file      *os.File
	csvWriter *csv.Writer
	fields    []string
}

// Row is one decode outcome to write.
type Row struct {
	Timestamp time.Time
	Source    string
	Version   string
	Size      int
	Record    *apdu.Record
	Err       error
}

// NewWriter writes CSV to w with columns for schema's fields.
func NewWriter(w io.Writer, schema *apdu.Schema) (*Writer, error) {
	fields := append(schema.Layout.Names(), schema.DerivedNames()...)
	cw := &Writer{csvWriter: csv.NewWriter(w), fields: fields}

	header := append(append([]string{}, baseColumns...), fields...)
	if err := cw.csvWriter.Write(header); err != nil {
		return nil, fmt.Errorf("write CSV header: %w", err)
	}
	cw.csvWriter.Flush()
	return cw, cw.csvWriter.Error()
}

// CreateFileWriter creates path and returns a writer over it.
func CreateFileWriter(path string, schema *apdu.Schema) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create CSV file: %w", err)
	}
	w, err := NewWriter(file, schema)
	if err != nil {
		file.Close()
		return nil, err
	}
	w.file = file
	return w, nil
}

// WriteRow writes a single decode outcome.
func (w *Writer) WriteRow(r Row) error {
	record := []string{
		formatTime(r.Timestamp),
		r.Source,
		r.Version,
		strconv.Itoa(r.Size),
		apdu.Kind(r.Err),
		"",
	}
	if r.Err != nil {
		record[5] = r.Err.Error()
	}
	for _, name := range w.fields {
		value := ""
		if r.Err == nil && r.Record != nil {
			if v, ok := r.Record.Get(name); ok {
				value = strconv.FormatUint(v, 10)
			}
		}
		record = append(record, value)
	}

	if err := w.csvWriter.Write(record); err != nil {
		return fmt.Errorf("write CSV record: %w", err)
	}
	w.csvWriter.Flush()
	return w.csvWriter.Error()
}

// Close flushes output and closes the file, if the writer owns one.
func (w *Writer) Close() error {
	w.csvWriter.Flush()
	if err := w.csvWriter.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatSummary formats a summary for human-readable output
func FormatSummary(summary *Summary) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Total Payloads: %s\n", humanize.Comma(int64(summary.Total)))
	if summary.Total == 0 {
		return buf.String()
	}
	fmt.Fprintf(&buf, "Decoded: %s (%.1f%%)\n", humanize.Comma(int64(summary.Decoded)), summary.SuccessRate())
	fmt.Fprintf(&buf, "Failed: %s (%.1f%%)\n", humanize.Comma(int64(summary.Failed)), 100-summary.SuccessRate())

	if len(summary.ByKind) > 0 {
		buf.WriteString("\nFailures by kind:\n")
		for _, kind := range sortedKeys(summary.ByKind) {
			fmt.Fprintf(&buf, "  %-20s %d\n", kind, summary.ByKind[kind])
		}
	}
	if len(summary.BySchema) > 0 {
		buf.WriteString("\nDecoded by schema:\n")
		for _, name := range sortedKeys(summary.BySchema) {
			fmt.Fprintf(&buf, "  %-26s %d\n", name, summary.BySchema[name])
		}
	}
	if len(summary.Fields) > 0 {
		buf.WriteString("\nField statistics:\n")
		fmt.Fprintf(&buf, "  %-28s %8s %8s %10s %10s\n", "FIELD", "MIN", "MAX", "AVG", "P90")
		for _, name := range summary.Order {
			st := summary.Fields[name]
			if st == nil {
				continue
			}
			fmt.Fprintf(&buf, "  %-28s %8d %8d %10.2f %10.2f\n", name, st.Min, st.Max, st.Avg, st.P90)
		}
	}

	return buf.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
