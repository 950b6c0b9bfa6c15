package domain

import "math"

// Stats holds aggregated min/max/avg for one parameter over a window.
type Stats struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
	Avg float64 `bson:"avg" json:"avg"`
}

// Summary maps each of the four known parameters to its window statistics.
// All four keys are always present; see the degenerate-window rule on
// [Summarize].
type Summary map[string]Stats

// Summarize folds hourly measurements into per-parameter statistics.
// Returns nil when measurements is empty; otherwise the summary carries all
// four parameters regardless of which appeared in the data.
//
// Min and max are folded from the hourly min/max fields, avg is the mean of
// the hourly avg fields. A parameter with no avg samples keeps avg = 0, and
// a missing min or max collapses to the final avg. The two collapses are
// independent: an hour carrying only a max still yields a real max alongside
// a collapsed min. Order-insensitive.
func Summarize(measurements []HourlyMeasurement) Summary {
	if len(measurements) == 0 {
		return nil
	}

	type acc struct {
		min   float64
		max   float64
		sum   float64
		count int
	}
	accs := make(map[string]*acc, len(Parameters))
	for _, param := range Parameters {
		accs[param] = &acc{min: math.Inf(1), max: math.Inf(-1)}
	}

	for _, m := range measurements {
		for _, param := range Parameters {
			stats, ok := m.Fields[param]
			if !ok {
				continue
			}
			a := accs[param]
			if stats.Min != nil && *stats.Min < a.min {
				a.min = *stats.Min
			}
			if stats.Max != nil && *stats.Max > a.max {
				a.max = *stats.Max
			}
			if stats.Avg != nil {
				a.sum += *stats.Avg
				a.count++
			}
		}
	}

	summary := make(Summary, len(Parameters))
	for _, param := range Parameters {
		a := accs[param]
		s := Stats{Min: a.min, Max: a.max}
		if a.count > 0 {
			s.Avg = a.sum / float64(a.count)
		}
		if math.IsInf(s.Min, 1) {
			s.Min = s.Avg
		}
		if math.IsInf(s.Max, -1) {
			s.Max = s.Avg
		}
		summary[param] = s
	}

	return summary
}
