// Package output provides signal track output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// WigWriter writes data points as a wiggle (variableStep) track.
type WigWriter struct {
	w           *bufio.Writer
	name        string
	description string
	chrom       string
	started     bool
	points      int
}

// NewWigWriter creates a new wiggle writer. The track line is written
// before the first data point.
func NewWigWriter(w io.Writer, name string) *WigWriter {
	return &WigWriter{
		w:    bufio.NewWriter(w),
		name: name,
	}
}

// SetDescription sets the optional track description.
func (ww *WigWriter) SetDescription(d string) {
	ww.description = d
}

// WriteHeader writes the track definition line.
func (ww *WigWriter) WriteHeader() error {
	if ww.started {
		return nil
	}
	ww.started = true

	var b strings.Builder
	b.WriteString("track type=wiggle_0")
	if ww.name != "" {
		fmt.Fprintf(&b, " name=%q", ww.name)
	}
	if ww.description != "" {
		fmt.Fprintf(&b, " description=%q", ww.description)
	}
	b.WriteByte('\n')

	_, err := ww.w.WriteString(b.String())
	return err
}

// Write writes a single data point. A new variableStep section starts
// whenever the chromosome label changes.
func (ww *WigWriter) Write(chrom string, pos int64, value float64) error {
	if err := ww.WriteHeader(); err != nil {
		return err
	}

	if chrom != ww.chrom || ww.points == 0 {
		if _, err := fmt.Fprintf(ww.w, "variableStep chrom=%s\n", chrom); err != nil {
			return err
		}
		ww.chrom = chrom
	}

	ww.points++
	_, err := fmt.Fprintf(ww.w, "%d %s\n", pos, FormatValue(value))
	return err
}

// Points returns the number of data points written.
func (ww *WigWriter) Points() int {
	return ww.points
}

// Flush flushes any buffered data, writing the track line if nothing
// else was written.
func (ww *WigWriter) Flush() error {
	if err := ww.WriteHeader(); err != nil {
		return err
	}
	return ww.w.Flush()
}

// FormatValue renders a value in its shortest exact form, always with a
// decimal point ("0.0", "12.0", "0.25").
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// TrackName derives a track name from an output path: the base name
// without its extension.
func TrackName(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}
