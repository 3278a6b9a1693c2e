package tokens

import (
	"math"

	"github.com/standardbeagle/designcheck/internal/colordist"
)

// Candidate is a numeric token value offered to NearestValue.
type Candidate struct {
	Name  string
	Value float64
}

// Match is the nearest token found for an actual value.
type Match struct {
	Token     string
	Expected  string  // token value formatted for display
	Value     float64 // numeric token value, zero for colors
	Deviation float64
}

// NearestColor finds the token color closest to actual. It returns false
// when tokens is empty or the nearest token is within tolerance.
func NearestColor(actual colordist.RGBA, tokens []ColorToken, tolerance float64, metric colordist.Metric) (Match, bool) {
	if len(tokens) == 0 {
		return Match{}, false
	}

	best := -1
	bestDist := math.Inf(1)
	for i, t := range tokens {
		d := colordist.DistanceWith(metric, actual, t.RGBA)
		if d < bestDist {
			best, bestDist = i, d
		}
	}

	if bestDist <= tolerance {
		return Match{}, false
	}

	t := tokens[best]
	expected := t.Hex
	if expected == "" {
		expected = t.RGBA.Hex()
	}
	return Match{
		Token:     t.Name,
		Expected:  expected,
		Deviation: round2(bestDist),
	}, true
}

// NearestValue finds the candidate closest to actual. It returns false when
// candidates is empty or the nearest candidate is within tolerance. Ties go
// to the earliest candidate.
func NearestValue(actual float64, candidates []Candidate, tolerance float64) (Match, bool) {
	if len(candidates) == 0 {
		return Match{}, false
	}

	best := 0
	bestDiff := math.Abs(actual - candidates[0].Value)
	for i := 1; i < len(candidates); i++ {
		d := math.Abs(actual - candidates[i].Value)
		if d < bestDiff {
			best, bestDiff = i, d
		}
	}

	if bestDiff <= tolerance {
		return Match{}, false
	}

	c := candidates[best]
	return Match{
		Token:     c.Name,
		Value:     c.Value,
		Deviation: round2(bestDiff),
	}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
