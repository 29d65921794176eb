package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/gaze.report/internal/monitoring"
	"github.com/banshee-data/gaze.report/internal/samples"
	"github.com/banshee-data/gaze.report/internal/targets"
)

var logf = monitoring.Prefixed("[analysis] ")

// Status is the resolution outcome of one sample row.
type Status int

const (
	// StatusMatched rows resolved to a catalog target and have a shifted point.
	StatusMatched Status = iota
	// StatusUnmatched rows carry at least one angle but no label resolved.
	StatusUnmatched
	// StatusNoObservation rows have neither angle and are never resolved.
	StatusNoObservation
)

func (s Status) String() string {
	switch s {
	case StatusMatched:
		return "matched"
	case StatusUnmatched:
		return "unmatched"
	case StatusNoObservation:
		return "no observation"
	default:
		return "unknown"
	}
}

// CorrectedSample is a sample row plus the outcome of resolving its label.
// Shifted is meaningful only when Status is StatusMatched.
type CorrectedSample struct {
	samples.Sample
	Normalized string
	Match      targets.Match
	Status     Status
	Shifted    Point
}

// Key returns the resolved catalog key, or "" when the row did not match.
func (c CorrectedSample) Key() string {
	if c.Status != StatusMatched {
		return ""
	}
	return c.Match.Key
}

// LabelCount is the frequency of one label.
type LabelCount struct {
	Label string
	Count int
}

// SummaryStats aggregates the summary log's offset column for one target.
type SummaryStats struct {
	Label  string
	Count  int
	Mean   float64
	StdDev float64
}

// TargetStats aggregates the matched samples of one catalog target.
// MeanDeviation is the mean of shifted point minus target offset.
type TargetStats struct {
	Target        targets.Target
	Samples       int
	MeanDeviation Point
}

// Result is everything a run reports, plots and stores.
type Result struct {
	Catalog *targets.Catalog

	// Summary log
	MeanOffset      samples.OptionalFloat
	OffsetCount     int
	SummaryByTarget []SummaryStats

	// Sample log
	Samples        []CorrectedSample
	RawLabelCounts []LabelCount
	Corrections    *CorrectionLog
	PerTarget      []TargetStats
	Unmatched      int
	NoObservation  int

	RawPoints     []Point
	ShiftedPoints []Point
	// MeanDeviation is the mean shifted-minus-target offset over every
	// matched sample; DeviationMagnitude is its length.
	MeanDeviation      Point
	DeviationMagnitude samples.OptionalFloat
}

// Matched returns the number of rows resolved to a target.
func (r *Result) Matched() int {
	return len(r.ShiftedPoints)
}

// UnmatchedSamples returns every row without a resolved target, including
// rows with no observation, in input order.
func (r *Result) UnmatchedSamples() []CorrectedSample {
	var out []CorrectedSample
	for _, s := range r.Samples {
		if s.Status != StatusMatched {
			out = append(out, s)
		}
	}
	return out
}

// Analyze resolves every sample against cat and aggregates both logs. It
// never fails: unresolved labels and missing numbers are counted, and each
// unresolved label is logged once per row.
func Analyze(cat *targets.Catalog, m *targets.Matcher, summary *samples.Summary, set *samples.SampleSet) *Result {
	r := &Result{
		Catalog:     cat,
		Corrections: NewCorrectionLog(),
	}

	if summary != nil {
		analyzeSummary(r, m, summary)
	}
	if set != nil {
		analyzeSamples(r, cat, m, set)
	}
	return r
}

func analyzeSummary(r *Result, m *targets.Matcher, summary *samples.Summary) {
	offsets := summary.Offsets()
	r.OffsetCount = len(offsets)
	if len(offsets) > 0 {
		r.MeanOffset = samples.Some(stat.Mean(offsets, nil))
	}

	var order []string
	groups := make(map[string][]float64)
	for _, row := range summary.Rows {
		label := targets.Normalize(row.Label)
		if label == "" {
			continue
		}
		if match := m.Match(label); match.OK {
			label = match.Key
		}
		v, ok := row.Offset.Get()
		if !ok {
			continue
		}
		if _, seen := groups[label]; !seen {
			order = append(order, label)
		}
		groups[label] = append(groups[label], v)
	}

	for _, label := range order {
		values := groups[label]
		mean, std := stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			std = 0
		}
		r.SummaryByTarget = append(r.SummaryByTarget, SummaryStats{
			Label:  label,
			Count:  len(values),
			Mean:   mean,
			StdDev: std,
		})
	}
}

func analyzeSamples(r *Result, cat *targets.Catalog, m *targets.Matcher, set *samples.SampleSet) {
	r.RawLabelCounts = countLabels(set.Samples)

	devX := make(map[string][]float64)
	devY := make(map[string][]float64)

	r.Samples = make([]CorrectedSample, 0, len(set.Samples))
	for _, s := range set.Samples {
		cs := CorrectedSample{Sample: s}

		if !s.HasObservation() {
			cs.Status = StatusNoObservation
			r.NoObservation++
			r.Samples = append(r.Samples, cs)
			continue
		}

		if yaw, ok := s.Yaw.Get(); ok {
			if pitch, ok := s.Pitch.Get(); ok {
				r.RawPoints = append(r.RawPoints, Point{X: yaw, Y: pitch})
			}
		}

		cs.Normalized = targets.Normalize(s.Label)
		cs.Match = m.Match(cs.Normalized)

		var target *targets.Target
		if cs.Match.OK {
			if t, ok := cat.Lookup(cs.Match.Key); ok {
				target = &t
			}
		}

		p, ok := Correct(target, s.Yaw, s.Pitch)
		if !ok {
			cs.Status = StatusUnmatched
			r.Unmatched++
			logf("no match for label %q (normalized as %q)", s.Label, cs.Normalized)
			r.Samples = append(r.Samples, cs)
			continue
		}

		cs.Status = StatusMatched
		cs.Shifted = p
		if cs.Match.Fuzzy {
			r.Corrections.Add(s.Label, cs.Match.Key, cs.Match.Score)
		}
		r.ShiftedPoints = append(r.ShiftedPoints, p)
		devX[target.Key] = append(devX[target.Key], p.X-target.Offset.X)
		devY[target.Key] = append(devY[target.Key], p.Y-target.Offset.Y)
		r.Samples = append(r.Samples, cs)
	}

	var allX, allY []float64
	for _, t := range cat.Targets() {
		ts := TargetStats{Target: t, Samples: len(devX[t.Key])}
		if ts.Samples > 0 {
			ts.MeanDeviation = Point{X: stat.Mean(devX[t.Key], nil), Y: stat.Mean(devY[t.Key], nil)}
			allX = append(allX, devX[t.Key]...)
			allY = append(allY, devY[t.Key]...)
		}
		r.PerTarget = append(r.PerTarget, ts)
	}
	if len(allX) > 0 {
		r.MeanDeviation = Point{X: stat.Mean(allX, nil), Y: stat.Mean(allY, nil)}
		r.DeviationMagnitude = samples.Some(math.Hypot(r.MeanDeviation.X, r.MeanDeviation.Y))
	}
}

// countLabels tallies raw labels before any cleaning. Empty cells are not
// counted. Higher counts come first; ties keep first-seen order.
func countLabels(rows []samples.Sample) []LabelCount {
	var counts []LabelCount
	index := make(map[string]int)
	for _, s := range rows {
		if s.Label == "" {
			continue
		}
		if i, ok := index[s.Label]; ok {
			counts[i].Count++
			continue
		}
		index[s.Label] = len(counts)
		counts = append(counts, LabelCount{Label: s.Label, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
