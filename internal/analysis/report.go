package analysis

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	headingStyle = color.New(color.Bold, color.FgHiWhite)
	goodStyle    = color.New(color.FgHiGreen)
	warnStyle    = color.New(color.FgHiYellow)
	keyStyle     = color.New(color.FgHiCyan)
)

// NoMatchLabel is the bucket name for rows without a resolved target.
const NoMatchLabel = "no match"

// WriteReport prints the human-readable summary of r. Colour follows the
// color package's global NoColor switch.
func WriteReport(w io.Writer, r *Result) error {
	ew := &errWriter{w: w}

	if v, ok := r.MeanOffset.Get(); ok {
		goodStyle.Fprintf(ew, "Average gaze-angle offset across all targets: %.2f° (%d values)\n", v, r.OffsetCount)
	} else {
		warnStyle.Fprintln(ew, "Average gaze-angle offset across all targets: no numeric values")
	}

	if len(r.SummaryByTarget) > 0 {
		headingStyle.Fprintln(ew, "\nSummary offset per target:")
		width := 0
		for _, s := range r.SummaryByTarget {
			width = max(width, len([]rune(s.Label)))
		}
		for _, s := range r.SummaryByTarget {
			fmt.Fprintf(ew, "  %-*s  n=%-4d mean=%6.2f°  sd=%5.2f°\n", width, s.Label, s.Count, s.Mean, s.StdDev)
		}
	}

	fmt.Fprintf(ew, "\nPre-cleaning row count: %d\n", len(r.Samples))
	headingStyle.Fprintln(ew, "Target label counts (raw):")
	for _, lc := range r.RawLabelCounts {
		fmt.Fprintf(ew, "  %q: %d\n", lc.Label, lc.Count)
	}

	if r.Corrections.Len() > 0 {
		headingStyle.Fprintln(ew, "\nAutocorrected target labels:")
		for _, c := range r.Corrections.Entries() {
			fmt.Fprintf(ew, "  %q → %s (%.2f)\n", c.Raw, keyStyle.Sprint(c.Key), c.Score)
		}
	}

	unresolved := r.Unmatched + r.NoObservation
	style := goodStyle
	if unresolved > 0 {
		style = warnStyle
	}
	style.Fprintf(ew, "\nUnlabeled gaze points (no match): %d", unresolved)
	if r.NoObservation > 0 {
		style.Fprintf(ew, " (%d without any angle)", r.NoObservation)
	}
	fmt.Fprintln(ew)

	headingStyle.Fprintln(ew, "\nGaze samples per target:")
	width := len(NoMatchLabel)
	for _, ts := range r.PerTarget {
		width = max(width, len(ts.Target.Key))
	}
	for _, ts := range r.PerTarget {
		fmt.Fprintf(ew, "  %-*s  %5d", width, ts.Target.Key, ts.Samples)
		if ts.Samples > 0 {
			fmt.Fprintf(ew, "  mean deviation (%+.2f°, %+.2f°)", ts.MeanDeviation.X, ts.MeanDeviation.Y)
		}
		fmt.Fprintln(ew)
	}
	fmt.Fprintf(ew, "  %-*s  %5d\n", width, NoMatchLabel, unresolved)

	if v, ok := r.DeviationMagnitude.Get(); ok {
		fmt.Fprintf(ew, "\nMean gaze deviation: (%+.2f°, %+.2f°), magnitude %.2f°\n",
			r.MeanDeviation.X, r.MeanDeviation.Y, v)
	}

	return ew.err
}

// errWriter remembers the first write error so the report can be written
// without checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
