package samples

import (
	"encoding/csv"
	"fmt"
	"io"
)

// AnnotatedRecord is an input row plus the value of one appended column.
type AnnotatedRecord struct {
	Record []string
	Value  string
}

// WriteAnnotated writes header plus column, then each record padded to the
// header width with its annotation appended. Output order follows rows.
func WriteAnnotated(w io.Writer, header []string, column string, rows []AnnotatedRecord) error {
	cw := csv.NewWriter(w)

	out := make([]string, 0, len(header)+1)
	out = append(out, header...)
	out = append(out, column)
	if err := cw.Write(out); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		out = out[:0]
		for j := range header {
			out = append(out, Field(row.Record, j))
		}
		out = append(out, row.Value)
		if err := cw.Write(out); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
