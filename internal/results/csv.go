package results

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Sink receives result rows the moment they are computed.
type Sink interface {
	Append(row Row) error
}

// CSVWriter is a Sink that appends rows to a CSV file. Every Append is
// flushed and fsynced before it returns: once Append succeeds the row
// survives a crash of the process or the machine.
type CSVWriter struct {
	f *os.File
	w *csv.Writer
}

// NewCSVWriter creates (truncating) the output file and writes the header.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create results file: %w", err)
	}

	cw := &CSVWriter{f: f, w: csv.NewWriter(f)}
	if err := cw.write(Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return cw, nil
}

// Append durably writes one row.
func (cw *CSVWriter) Append(row Row) error {
	if err := cw.write(row.Fields()); err != nil {
		return fmt.Errorf("append result row: %w", err)
	}
	return nil
}

func (cw *CSVWriter) write(fields []string) error {
	if err := cw.w.Write(fields); err != nil {
		return err
	}
	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		return err
	}
	return cw.f.Sync()
}

// Close closes the underlying file. Rows are already flushed.
func (cw *CSVWriter) Close() error {
	return cw.f.Close()
}
