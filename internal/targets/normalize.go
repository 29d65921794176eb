package targets

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const zeroWidthSpace = '\u200b'

// newLabelCleaner builds the rune-level stage of label normalization.
// Zero-width and Unicode spaces become word separators, then anything
// outside printable ASCII is dropped. Transformers carry internal buffers,
// so a fresh chain is built per call.
func newLabelCleaner() transform.Transformer {
	return transform.Chain(
		runes.Map(func(r rune) rune {
			if r == zeroWidthSpace || unicode.IsSpace(r) {
				return ' '
			}
			return r
		}),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return r < 0x20 || r > 0x7e
		})),
	)
}

// Normalize reduces a raw target label to its comparison key: printable
// ASCII only, single-spaced, trimmed and lowercase. It never fails; a label
// with nothing printable normalizes to the empty string.
func Normalize(raw string) string {
	cleaned, _, _ := transform.String(newLabelCleaner(), raw)
	return strings.ToLower(strings.Join(strings.Fields(cleaned), " "))
}
