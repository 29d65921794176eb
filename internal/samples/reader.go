// Package samples reads the summary and per-sample CSV logs written by the
// eye-tracking accuracy test and writes annotated sample rows back out.
package samples

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/gaze.report/internal/units"
)

// Comment prefixes used by the accuracy test logs. Session separators in
// the summary log start with "---"; the sample log treats any line that
// starts with "-" as a comment.
const (
	SummaryCommentPrefix = "---"
	SampleCommentPrefix  = "-"
)

// Default column names written by the accuracy test.
const (
	DefaultTargetColumn = "Target"
	DefaultOffsetColumn = "GazeAngleOffset(deg)"
	DefaultYawColumn    = "Yaw(deg)"
	DefaultPitchColumn  = "Pitch(deg)"
)

const utf8BOM = "\ufeff"

// Table is a parsed CSV file with its comment lines removed.
type Table struct {
	Header  []string
	Records [][]string
}

// ReadTable parses r as CSV, dropping blank lines and any line that starts
// with commentPrefix. Header names are trimmed. Rows may be ragged.
func ReadTable(r io.Reader, commentPrefix string) (*Table, error) {
	filtered, err := stripCommentLines(r, commentPrefix)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(filtered)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", len(t.Records)+1, err)
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// stripCommentLines copies r without comment lines. A UTF-8 byte order mark
// on the first line is dropped before the prefix check.
func stripCommentLines(r io.Reader, prefix string) (io.Reader, error) {
	var buf bytes.Buffer
	br := bufio.NewReader(r)
	first := true
	for {
		line, err := br.ReadString('\n')
		if first {
			line = strings.TrimPrefix(line, utf8BOM)
			first = false
		}
		if line != "" && (prefix == "" || !strings.HasPrefix(line, prefix)) {
			buf.WriteString(line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
	}
	return &buf, nil
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	found := make([]string, len(t.Header))
	copy(found, t.Header)
	return -1, &MissingColumnError{Column: name, Found: found}
}

// Field returns rec[idx], or "" when the row is too short or idx < 0.
func Field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

// SummaryColumns names the columns read from the summary log.
type SummaryColumns struct {
	Target string
	Offset string
}

// SummaryRow is one per-target record from the summary log.
type SummaryRow struct {
	Label  string
	Offset OptionalFloat
}

// Summary is the parsed summary log.
type Summary struct {
	Header []string
	Rows   []SummaryRow
}

// ReadSummary parses the summary log. The offset column is required; the
// target column is optional and only feeds per-target statistics.
func ReadSummary(r io.Reader, cols SummaryColumns) (*Summary, error) {
	t, err := ReadTable(r, SummaryCommentPrefix)
	if err != nil {
		return nil, err
	}

	offsetIdx, err := t.ColumnIndex(cols.Offset)
	if err != nil {
		return nil, err
	}
	targetIdx := -1
	if cols.Target != "" {
		if idx, err := t.ColumnIndex(cols.Target); err == nil {
			targetIdx = idx
		}
	}

	s := &Summary{Header: t.Header, Rows: make([]SummaryRow, 0, len(t.Records))}
	for _, rec := range t.Records {
		s.Rows = append(s.Rows, SummaryRow{
			Label:  Field(rec, targetIdx),
			Offset: ParseOptionalFloat(Field(rec, offsetIdx)),
		})
	}
	return s, nil
}

// Offsets returns the present offset values in file order.
func (s *Summary) Offsets() []float64 {
	out := make([]float64, 0, len(s.Rows))
	for _, row := range s.Rows {
		if v, ok := row.Offset.Get(); ok {
			out = append(out, v)
		}
	}
	return out
}

// SampleColumns names the columns read from the sample log. AngleUnit is
// the unit of the yaw and pitch cells; empty means degrees.
type SampleColumns struct {
	Target    string
	Yaw       string
	Pitch     string
	AngleUnit string
}

// Sample is one gaze observation. Record holds the row exactly as read.
type Sample struct {
	Index  int
	Record []string
	Label  string
	Yaw    OptionalFloat
	Pitch  OptionalFloat
}

// HasObservation reports whether at least one angle is present.
func (s Sample) HasObservation() bool {
	return s.Yaw.Valid() || s.Pitch.Valid()
}

// SampleSet is the parsed sample log.
type SampleSet struct {
	Header  []string
	Samples []Sample
}

// ReadSamples parses the sample log. All three columns are required. Yaw
// and pitch are converted to degrees.
func ReadSamples(r io.Reader, cols SampleColumns) (*SampleSet, error) {
	t, err := ReadTable(r, SampleCommentPrefix)
	if err != nil {
		return nil, err
	}

	targetIdx, err := t.ColumnIndex(cols.Target)
	if err != nil {
		return nil, err
	}
	yawIdx, err := t.ColumnIndex(cols.Yaw)
	if err != nil {
		return nil, err
	}
	pitchIdx, err := t.ColumnIndex(cols.Pitch)
	if err != nil {
		return nil, err
	}

	set := &SampleSet{Header: t.Header, Samples: make([]Sample, 0, len(t.Records))}
	for i, rec := range t.Records {
		set.Samples = append(set.Samples, Sample{
			Index:  i,
			Record: rec,
			Label:  Field(rec, targetIdx),
			Yaw:    parseAngle(Field(rec, yawIdx), cols.AngleUnit),
			Pitch:  parseAngle(Field(rec, pitchIdx), cols.AngleUnit),
		})
	}
	return set, nil
}

func parseAngle(cell, unit string) OptionalFloat {
	v, ok := ParseOptionalFloat(cell).Get()
	if !ok {
		return None()
	}
	return Some(units.ToDegrees(v, unit))
}
