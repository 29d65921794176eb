package analysis

import (
	"io"

	"github.com/banshee-data/gaze.report/internal/samples"
)

// WriteUnmatched writes every unresolved row of r as CSV: the sample
// header plus column, each row's original fields verbatim and an empty
// resolution. Rows keep input order, so identical inputs give identical
// bytes.
func WriteUnmatched(w io.Writer, header []string, r *Result, column string) error {
	unmatched := r.UnmatchedSamples()
	rows := make([]samples.AnnotatedRecord, 0, len(unmatched))
	for _, s := range unmatched {
		rows = append(rows, samples.AnnotatedRecord{Record: s.Record})
	}
	return samples.WriteAnnotated(w, header, column, rows)
}
