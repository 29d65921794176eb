// Package testutil provides shared test fixtures for the accuracy test
// logs and small assertion helpers.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/gaze.report/internal/samples"
)

// Headers written by the accuracy test.
const (
	SummaryHeader = "Time,Target,CenterError,EyeToTargetDistance,FrameHitRate(0-1),NormalizedCenterError(%),GazeAngleOffset(deg)"
	SamplesHeader = "Time,Target,Yaw(deg),Pitch(deg)"
)

// SessionLine is a session separator as the accuracy test writes it. The
// test prefixes each separator with a blank line.
const SessionLine = "--- New Session: 3/14/2026 10:22:05 AM ---"

// Missed is the offset passed to SummaryRow for a target the test never
// resolved.
const Missed = "null"

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// CSV joins header and rows into newline-terminated CSV text.
func CSV(header string, rows ...string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	return b.String()
}

// SummaryRow formats one summary log row with fixed error, distance and
// hit-rate cells. An offset of Missed writes the all-null row the test
// records for a target it never hit.
func SummaryRow(ts, label, offset string) string {
	if offset == Missed {
		return strings.Join([]string{ts, quote(label), "null", "null", "0.00", "null", "null"}, ",")
	}
	return strings.Join([]string{ts, quote(label), "0.0123", "1.2000", "0.95", "12.3", offset}, ",")
}

// SampleRow formats one sample log row. Empty yaw or pitch leaves the cell
// blank.
func SampleRow(ts, label, yaw, pitch string) string {
	return strings.Join([]string{ts, quote(label), yaw, pitch}, ",")
}

func quote(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

// WriteFile writes content to name inside dir and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// MustReadSummary parses content with the default summary columns.
func MustReadSummary(t *testing.T, content string) *samples.Summary {
	t.Helper()
	s, err := samples.ReadSummary(strings.NewReader(content), samples.SummaryColumns{
		Target: samples.DefaultTargetColumn,
		Offset: samples.DefaultOffsetColumn,
	})
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	return s
}

// MustReadSamples parses content with the default sample columns.
func MustReadSamples(t *testing.T, content string) *samples.SampleSet {
	t.Helper()
	set, err := samples.ReadSamples(strings.NewReader(content), samples.SampleColumns{
		Target: samples.DefaultTargetColumn,
		Yaw:    samples.DefaultYawColumn,
		Pitch:  samples.DefaultPitchColumn,
	})
	if err != nil {
		t.Fatalf("failed to read samples: %v", err)
	}
	return set
}
