// Package snapshot keeps named sets of baseline screenshots on disk and
// compares later captures against them with the pixel diff engine.
package snapshot

import (
	"time"

	"github.com/standardbeagle/designcheck/internal/pixeldiff"
)

// Baseline is a saved set of screenshots.
type Baseline struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	GitCommit string    `json:"git_commit,omitempty"`
	GitBranch string    `json:"git_branch,omitempty"`
	Pages     []Page    `json:"pages"`
}

// Page is one screenshot inside a baseline.
type Page struct {
	Name       string            `json:"name"`
	URL        string            `json:"url,omitempty"`
	Viewport   Viewport          `json:"viewport"`
	Screenshot string            `json:"screenshot"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	CapturedAt time.Time         `json:"captured_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Viewport is the browser window size a screenshot was taken at.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Capture is a screenshot handed in by a caller. Name identifies the page
// across captures and falls back to URL when empty.
type Capture struct {
	Name       string            `json:"name,omitempty"`
	URL        string            `json:"url,omitempty"`
	Viewport   Viewport          `json:"viewport"`
	Screenshot string            `json:"screenshot"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func (c Capture) key() string {
	if c.Name != "" {
		return c.Name
	}
	return c.URL
}

// Report is the outcome of comparing captures to a baseline.
type Report struct {
	ID        string     `json:"id"`
	Baseline  string     `json:"baseline"`
	CreatedAt time.Time  `json:"created_at"`
	Dir       string     `json:"dir"`
	Pages     []PageDiff `json:"pages"`
	Summary   Summary    `json:"summary"`
}

// PageDiff is the comparison of one baseline page.
type PageDiff struct {
	Name              string             `json:"name"`
	Missing           bool               `json:"missing,omitempty"`
	MatchPercentage   float64            `json:"match_percentage"`
	MismatchedPixels  int                `json:"mismatched_pixels"`
	Regions           []pixeldiff.Region `json:"regions,omitempty"`
	Changed           bool               `json:"changed"`
	Regression        bool               `json:"regression"`
	Description       string             `json:"description"`
	BaselineImagePath string             `json:"baseline_image_path,omitempty"`
	CurrentImagePath  string             `json:"current_image_path,omitempty"`
	DiffImagePath     string             `json:"diff_image_path,omitempty"`
	SideBySidePath    string             `json:"side_by_side_path,omitempty"`
}

// Summary aggregates a report.
type Summary struct {
	TotalPages     int      `json:"total_pages"`
	PagesChanged   int      `json:"pages_changed"`
	PagesUnchanged int      `json:"pages_unchanged"`
	PagesMissing   int      `json:"pages_missing"`
	Regressions    int      `json:"regressions"`
	AverageMatch   float64  `json:"average_match"`
	Unexpected     []string `json:"unexpected,omitempty"`
}

// HasRegressions reports whether any page fell below the match minimum or
// went missing.
func (s Summary) HasRegressions() bool {
	return s.Regressions > 0 || s.PagesMissing > 0
}
