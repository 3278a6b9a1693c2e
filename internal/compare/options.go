package compare

import "github.com/standardbeagle/designcheck/internal/colordist"

// Tolerances are the deviations below which a value counts as matching.
type Tolerances struct {
	Color        float64 // Delta-E
	FontSize     float64 // px
	FontWeight   float64
	LineHeight   float64 // px
	Spacing      float64 // px, also used for component diffs
	BorderRadius float64 // px
}

// Thresholds is a severity step function: deviation >= Critical is critical,
// >= Major is major, anything else minor.
type Thresholds struct {
	Major    float64
	Critical float64
}

// Classify maps a deviation to a severity.
func (t Thresholds) Classify(deviation float64) Severity {
	switch {
	case deviation >= t.Critical:
		return SeverityCritical
	case deviation >= t.Major:
		return SeverityMajor
	default:
		return SeverityMinor
	}
}

// Options configures an Engine.
type Options struct {
	Tolerances  Tolerances
	Severity    map[Category]Thresholds
	ColorMetric colordist.Metric
	Matcher     ComponentMatcher
}

// DefaultOptions returns the stock tolerances and severity thresholds.
func DefaultOptions() Options {
	return Options{
		Tolerances: Tolerances{
			Color:        5,
			FontSize:     2,
			FontWeight:   0,
			LineHeight:   2,
			Spacing:      4,
			BorderRadius: 2,
		},
		Severity: map[Category]Thresholds{
			CategoryColor:      {Major: 10, Critical: 25},
			CategoryTypography: {Major: 4, Critical: 8},
			CategorySpacing:    {Major: 8, Critical: 16},
			CategoryBorder:     {Major: 4, Critical: 8},
			CategorySize:       {Major: 8, Critical: 24},
			CategoryLayout:     {Major: 8, Critical: 24},
			CategoryAlignment:  {Major: 4, Critical: 12},
		},
		ColorMetric: colordist.CIE76,
		Matcher:     SubstringMatcher{},
	}
}

func (o Options) classify(c Category, deviation float64) Severity {
	t, ok := o.Severity[c]
	if !ok {
		t = DefaultOptions().Severity[c]
	}
	return t.Classify(deviation)
}
