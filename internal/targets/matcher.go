package targets

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultThreshold is the minimum similarity ratio for a fuzzy match.
const DefaultThreshold = 0.75

// Match is the outcome of resolving one normalized label.
type Match struct {
	// Key is the resolved catalog key; empty when OK is false.
	Key string
	// Score is the similarity ratio of the chosen key (1 for exact hits).
	Score float64
	// Fuzzy reports whether the key came from approximate matching.
	Fuzzy bool
	// OK is false when no key reached the threshold.
	OK bool
}

// Matcher resolves normalized labels against a catalog: an exact key lookup
// first, then the best Ratcliff/Obershelp similarity ratio among the catalog
// keys. Ties go to the earliest key in catalog order.
type Matcher struct {
	catalog   *Catalog
	threshold float64
	keys      [][]string
}

// NewMatcher returns a matcher over cat accepting fuzzy matches whose
// similarity is at least threshold.
func NewMatcher(cat *Catalog, threshold float64) (*Matcher, error) {
	if cat == nil {
		return nil, fmt.Errorf("nil catalog")
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be in [0, 1], got %v", threshold)
	}

	keys := make([][]string, 0, cat.Len())
	for _, k := range cat.Keys() {
		keys = append(keys, splitChars(k))
	}
	return &Matcher{catalog: cat, threshold: threshold, keys: keys}, nil
}

// Threshold returns the fuzzy acceptance threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match resolves a normalized label. A miss is a valid outcome, not an error.
func (m *Matcher) Match(label string) Match {
	if _, ok := m.catalog.Lookup(label); ok {
		return Match{Key: label, Score: 1, OK: true}
	}

	// The label is sequence b so difflib caches its index once across all
	// candidates.
	sm := difflib.NewMatcher(nil, splitChars(label))
	// bestScore starts below any ratio so a zero threshold accepts a
	// zero-similarity key.
	best, bestScore := -1, -1.0
	for i, key := range m.keys {
		sm.SetSeq1(key)
		if sm.RealQuickRatio() < m.threshold || sm.QuickRatio() < m.threshold {
			continue
		}
		score := sm.Ratio()
		if score >= m.threshold && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Match{}
	}
	return Match{Key: m.catalog.targets[best].Key, Score: bestScore, Fuzzy: true, OK: true}
}

// Similarity returns the similarity ratio between two strings, in [0, 1].
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

// splitChars turns a string into the element sequence difflib compares.
func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
