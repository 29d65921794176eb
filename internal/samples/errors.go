package samples

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when a CSV input has no header row.
var ErrEmptyInput = errors.New("input has no header row")

// MissingColumnError reports a required column absent from a CSV header.
// Callers treat it as recoverable: the run stops without writing output.
type MissingColumnError struct {
	Column string
	Found  []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found (columns: %s)", e.Column, strings.Join(e.Found, ", "))
}
