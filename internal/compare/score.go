package compare

import "math"

// Points deducted from a category score per mismatch.
var severityPenalty = map[Severity]int{
	SeverityCritical: 15,
	SeverityMajor:    10,
	SeverityMinor:    5,
	SeverityInfo:     2,
}

// CategoryWeights weight category scores into the overall score. They sum to 1.
var CategoryWeights = map[Category]float64{
	CategoryColor:      0.20,
	CategoryTypography: 0.20,
	CategorySpacing:    0.15,
	CategoryLayout:     0.15,
	CategoryBorder:     0.10,
	CategoryAlignment:  0.10,
	CategorySize:       0.10,
}

// Score computes per-category scores for mismatches. Every category is
// present in the result; categories without mismatches score 100.
func Score(mismatches []Mismatch) map[Category]int {
	scores := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		scores[c] = 100
	}
	for _, m := range mismatches {
		scores[m.Category] -= severityPenalty[m.Severity]
	}
	for c, s := range scores {
		if s < 0 {
			scores[c] = 0
		}
	}
	return scores
}

// OverallScore is the weighted average of all seven category scores. A
// category missing from scores counts as 100, so the weights always sum to 1.
func OverallScore(scores map[Category]int) int {
	total := 0.0
	for _, c := range Categories {
		s, ok := scores[c]
		if !ok {
			s = 100
		}
		total += float64(s) * CategoryWeights[c]
	}
	return int(math.Round(total))
}

// Summarize counts mismatches by severity.
func Summarize(mismatches []Mismatch) Summary {
	s := Summary{Total: len(mismatches)}
	for _, m := range mismatches {
		switch m.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityMajor:
			s.Major++
		case SeverityMinor:
			s.Minor++
		case SeverityInfo:
			s.Info++
		}
	}
	return s
}

func (r *run) result() *Result {
	mismatches := r.mismatches
	if mismatches == nil {
		mismatches = []Mismatch{}
	}
	scores := Score(mismatches)
	return &Result{
		Mismatches:     mismatches,
		CategoryScores: scores,
		OverallScore:   OverallScore(scores),
		Summary:        Summarize(mismatches),
		Elements:       r.elements,
	}
}
