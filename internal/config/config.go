// Package config loads designcheck settings from KDL files and turns them
// into engine options.
package config

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/standardbeagle/designcheck/internal/audit"
	"github.com/standardbeagle/designcheck/internal/colordist"
	"github.com/standardbeagle/designcheck/internal/compare"
	"github.com/standardbeagle/designcheck/internal/pixeldiff"
)

// Config is the complete designcheck configuration.
type Config struct {
	Tolerances Tolerances `kdl:"tolerances"`
	Severity   Severity   `kdl:"severity"`
	PixelDiff  PixelDiff  `kdl:"pixel-diff"`
	Audit      Audit      `kdl:"audit"`
	Snapshot   Snapshot   `kdl:"snapshot"`

	source string
}

// Tolerances are the deviations that still count as matching a token.
type Tolerances struct {
	// Color is a Delta-E distance.
	Color float64 `kdl:"color"`
	// ColorMetric is "cie76" or "ciede2000".
	ColorMetric  string  `kdl:"color-metric"`
	FontSize     float64 `kdl:"font-size"`
	FontWeight   float64 `kdl:"font-weight"`
	LineHeight   float64 `kdl:"line-height"`
	Spacing      float64 `kdl:"spacing"`
	BorderRadius float64 `kdl:"border-radius"`
}

// Thresholds are the deviations at which a mismatch becomes major or critical.
type Thresholds struct {
	Major    float64 `kdl:"major"`
	Critical float64 `kdl:"critical"`
}

// Severity holds per-category thresholds.
type Severity struct {
	Color      Thresholds `kdl:"color"`
	Typography Thresholds `kdl:"typography"`
	Spacing    Thresholds `kdl:"spacing"`
	Layout     Thresholds `kdl:"layout"`
	Border     Thresholds `kdl:"border"`
	Alignment  Thresholds `kdl:"alignment"`
	Size       Thresholds `kdl:"size"`
}

// PixelDiff configures the screenshot comparison.
type PixelDiff struct {
	Threshold       float64 `kdl:"threshold"`
	IncludeAA       bool    `kdl:"include-aa"`
	Alpha           float64 `kdl:"alpha"`
	DiffColor       string  `kdl:"diff-color"`
	AAColor         string  `kdl:"aa-color"`
	MinRegionPixels int     `kdl:"min-region-pixels"`
	MergeDistance   int     `kdl:"merge-distance"`
	MaxFillStack    int     `kdl:"max-fill-stack"`
}

// Audit holds the pass criteria of combined audits.
type Audit struct {
	MinScore int     `kdl:"min-score"`
	MinMatch float64 `kdl:"min-match"`
}

// Snapshot configures baseline storage.
type Snapshot struct {
	// Dir is the storage root. Empty means ~/.designcheck.
	Dir      string  `kdl:"dir"`
	MinMatch float64 `kdl:"min-match"`
}

// Default returns the built-in configuration.
func Default() *Config {
	co := compare.DefaultOptions()
	po := pixeldiff.DefaultOptions()
	ac := audit.DefaultCriteria()

	th := func(c compare.Category) Thresholds {
		t := co.Severity[c]
		return Thresholds{Major: t.Major, Critical: t.Critical}
	}

	return &Config{
		Tolerances: Tolerances{
			Color:        co.Tolerances.Color,
			ColorMetric:  string(co.ColorMetric),
			FontSize:     co.Tolerances.FontSize,
			FontWeight:   co.Tolerances.FontWeight,
			LineHeight:   co.Tolerances.LineHeight,
			Spacing:      co.Tolerances.Spacing,
			BorderRadius: co.Tolerances.BorderRadius,
		},
		Severity: Severity{
			Color:      th(compare.CategoryColor),
			Typography: th(compare.CategoryTypography),
			Spacing:    th(compare.CategorySpacing),
			Layout:     th(compare.CategoryLayout),
			Border:     th(compare.CategoryBorder),
			Alignment:  th(compare.CategoryAlignment),
			Size:       th(compare.CategorySize),
		},
		PixelDiff: PixelDiff{
			Threshold:       po.Threshold,
			IncludeAA:       po.IncludeAA,
			Alpha:           po.Alpha,
			DiffColor:       hexOf(po.DiffColor),
			AAColor:         hexOf(po.AAColor),
			MinRegionPixels: po.MinRegionPixels,
			MergeDistance:   po.MergeDistance,
			MaxFillStack:    po.MaxFillStack,
		},
		Audit: Audit{
			MinScore: ac.MinScore,
			MinMatch: ac.MinMatch,
		},
		Snapshot: Snapshot{
			MinMatch: 99.5,
		},
	}
}

// Source returns the file the configuration was loaded from, or "" for
// built-in defaults.
func (c *Config) Source() string { return c.source }

// Validate checks value ranges and parses the string-typed settings.
func (c *Config) Validate() error {
	var errs []error

	if _, err := colordist.ParseMetric(c.Tolerances.ColorMetric); err != nil {
		errs = append(errs, fmt.Errorf("tolerances: %w", err))
	}
	t := c.Tolerances
	for name, v := range map[string]float64{
		"color": t.Color, "font-size": t.FontSize, "font-weight": t.FontWeight,
		"line-height": t.LineHeight, "spacing": t.Spacing, "border-radius": t.BorderRadius,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("tolerances: %s must not be negative", name))
		}
	}

	for cat, th := range c.severityTable() {
		if th.Major < 0 || th.Critical < th.Major {
			errs = append(errs, fmt.Errorf("severity: %s needs 0 <= major <= critical", cat))
		}
	}

	p := c.PixelDiff
	if p.Threshold < 0 || p.Threshold > 1 {
		errs = append(errs, errors.New("pixel-diff: threshold must be between 0 and 1"))
	}
	if p.Alpha < 0 || p.Alpha > 1 {
		errs = append(errs, errors.New("pixel-diff: alpha must be between 0 and 1"))
	}
	if p.MaxFillStack < pixeldiff.MinFillStack {
		errs = append(errs, fmt.Errorf("pixel-diff: max-fill-stack must be at least %d", pixeldiff.MinFillStack))
	}
	if p.MinRegionPixels < 0 || p.MergeDistance < 0 {
		errs = append(errs, errors.New("pixel-diff: min-region-pixels and merge-distance must not be negative"))
	}
	for name, s := range map[string]string{"diff-color": p.DiffColor, "aa-color": p.AAColor} {
		if _, err := colordist.Parse(s); err != nil {
			errs = append(errs, fmt.Errorf("pixel-diff: %s: %w", name, err))
		}
	}

	if c.Audit.MinMatch < 0 || c.Audit.MinMatch > 100 {
		errs = append(errs, errors.New("audit: min-match must be between 0 and 100"))
	}
	if c.Snapshot.MinMatch < 0 || c.Snapshot.MinMatch > 100 {
		errs = append(errs, errors.New("snapshot: min-match must be between 0 and 100"))
	}

	return errors.Join(errs...)
}

func (c *Config) severityTable() map[compare.Category]Thresholds {
	s := c.Severity
	return map[compare.Category]Thresholds{
		compare.CategoryColor:      s.Color,
		compare.CategoryTypography: s.Typography,
		compare.CategorySpacing:    s.Spacing,
		compare.CategoryLayout:     s.Layout,
		compare.CategoryBorder:     s.Border,
		compare.CategoryAlignment:  s.Alignment,
		compare.CategorySize:       s.Size,
	}
}

// CompareOptions converts the style comparison settings.
func (c *Config) CompareOptions() compare.Options {
	opts := compare.DefaultOptions()
	opts.Tolerances = compare.Tolerances{
		Color:        c.Tolerances.Color,
		FontSize:     c.Tolerances.FontSize,
		FontWeight:   c.Tolerances.FontWeight,
		LineHeight:   c.Tolerances.LineHeight,
		Spacing:      c.Tolerances.Spacing,
		BorderRadius: c.Tolerances.BorderRadius,
	}
	if m, err := colordist.ParseMetric(c.Tolerances.ColorMetric); err == nil {
		opts.ColorMetric = m
	}
	for cat, th := range c.severityTable() {
		opts.Severity[cat] = compare.Thresholds{Major: th.Major, Critical: th.Critical}
	}
	return opts
}

// PixelOptions converts the pixel diff settings.
func (c *Config) PixelOptions() pixeldiff.Options {
	opts := pixeldiff.DefaultOptions()
	p := c.PixelDiff
	opts.Threshold = p.Threshold
	opts.IncludeAA = p.IncludeAA
	opts.Alpha = p.Alpha
	opts.MinRegionPixels = p.MinRegionPixels
	opts.MergeDistance = p.MergeDistance
	opts.MaxFillStack = p.MaxFillStack
	if col, err := colordist.Parse(p.DiffColor); err == nil {
		opts.DiffColor = toNRGBA(col)
	}
	if col, err := colordist.Parse(p.AAColor); err == nil {
		opts.AAColor = toNRGBA(col)
	}
	return opts
}

// Criteria converts the audit pass criteria.
func (c *Config) Criteria() audit.Criteria {
	return audit.Criteria{MinScore: c.Audit.MinScore, MinMatch: c.Audit.MinMatch}
}

func toNRGBA(c colordist.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(c.A*255 + 0.5)}
}

func hexOf(c color.NRGBA) string {
	return colordist.RGBA{R: c.R, G: c.G, B: c.B, A: float64(c.A) / 255}.Hex()
}
