// Package compare checks the computed styles of a captured page against a
// design token set and scores the result.
package compare

// Category groups mismatches for scoring.
type Category string

const (
	CategoryColor      Category = "color"
	CategoryTypography Category = "typography"
	CategorySpacing    Category = "spacing"
	CategoryLayout     Category = "layout"
	CategoryBorder     Category = "border"
	CategoryAlignment  Category = "alignment"
	CategorySize       Category = "size"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryColor,
	CategoryTypography,
	CategorySpacing,
	CategoryLayout,
	CategoryBorder,
	CategoryAlignment,
	CategorySize,
}

// Severity classifies how visible a deviation is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityInfo     Severity = "info"
)

// Mismatch is one property that does not match the design. Deviation is in
// Delta-E units for colors and pixels for lengths.
type Mismatch struct {
	ID        int      `json:"id"`
	Category  Category `json:"category"`
	Severity  Severity `json:"severity"`
	Property  string   `json:"property"`
	Expected  string   `json:"expectedValue"`
	Actual    string   `json:"actualValue"`
	Locator   string   `json:"element"`
	Token     string   `json:"token,omitempty"`
	Deviation float64  `json:"deviation"`
}

// Summary counts mismatches by severity.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
	Info     int `json:"info"`
}

// Result is the outcome of one comparison run.
type Result struct {
	Mismatches     []Mismatch       `json:"mismatches"`
	CategoryScores map[Category]int `json:"categoryScores"`
	OverallScore   int              `json:"overallScore"`
	Summary        Summary          `json:"summary"`
	Elements       int              `json:"elementsChecked"`
}

// ByCategory returns the mismatches of one category in emission order.
func (r *Result) ByCategory(c Category) []Mismatch {
	out := []Mismatch{}
	for _, m := range r.Mismatches {
		if m.Category == c {
			out = append(out, m)
		}
	}
	return out
}
