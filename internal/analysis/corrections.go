package analysis

// Correction records one raw label that was resolved by fuzzy matching.
type Correction struct {
	Raw   string
	Key   string
	Score float64
}

// CorrectionLog keeps fuzzy resolutions in the order their raw labels were
// first seen. Exact matches are never logged.
type CorrectionLog struct {
	entries []Correction
	index   map[string]int
}

// NewCorrectionLog returns an empty log.
func NewCorrectionLog() *CorrectionLog {
	return &CorrectionLog{index: make(map[string]int)}
}

// Add records raw → key. A raw label already present keeps its position
// and takes the latest key.
func (l *CorrectionLog) Add(raw, key string, score float64) {
	if i, ok := l.index[raw]; ok {
		l.entries[i].Key = key
		l.entries[i].Score = score
		return
	}
	l.index[raw] = len(l.entries)
	l.entries = append(l.entries, Correction{Raw: raw, Key: key, Score: score})
}

// Lookup returns the key recorded for raw.
func (l *CorrectionLog) Lookup(raw string) (string, bool) {
	i, ok := l.index[raw]
	if !ok {
		return "", false
	}
	return l.entries[i].Key, true
}

// Entries returns a copy of the log in first-seen order.
func (l *CorrectionLog) Entries() []Correction {
	out := make([]Correction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of distinct raw labels logged.
func (l *CorrectionLog) Len() int {
	return len(l.entries)
}
