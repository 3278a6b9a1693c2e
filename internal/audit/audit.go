// Package audit runs the style comparison and the screenshot comparison for
// one page and joins them into a single report.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/designcheck/internal/compare"
	"github.com/standardbeagle/designcheck/internal/pixeldiff"
	"github.com/standardbeagle/designcheck/internal/styletree"
	"github.com/standardbeagle/designcheck/internal/tokens"
)

// ErrNothingToAudit is returned when an input carries neither a style tree
// nor a pair of screenshots.
var ErrNothingToAudit = errors.New("nothing to audit: need a style tree or two screenshots")

// Criteria decides whether a report passes.
type Criteria struct {
	// MinScore is the lowest acceptable overall style score.
	MinScore int `json:"minScore"`
	// MinMatch is the lowest acceptable pixel match percentage.
	MinMatch float64 `json:"minMatch"`
}

// DefaultCriteria returns the stock pass criteria.
func DefaultCriteria() Criteria {
	return Criteria{MinScore: 80, MinMatch: 95}
}

// Input is one page to audit. Either half may be omitted.
type Input struct {
	Name       string
	Tree       *styletree.Element
	Tokens     *tokens.Set
	Components []compare.Component

	// Expected and Actual are encoded screenshots (PNG, JPEG, BMP or WebP).
	Expected []byte
	Actual   []byte
}

func (in Input) hasStyles() bool { return in.Tree != nil }
func (in Input) hasPixels() bool { return len(in.Expected) > 0 || len(in.Actual) > 0 }

// Report is the joined outcome of an audit.
type Report struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Styles     *compare.Result   `json:"styles,omitempty"`
	Pixels     *pixeldiff.Result `json:"pixels,omitempty"`
	Criteria   Criteria          `json:"criteria"`
	Passed     bool              `json:"passed"`
	Failures   []string          `json:"failures,omitempty"`
}

// Auditor owns one engine of each kind.
type Auditor struct {
	styles   *compare.Engine
	pixels   *pixeldiff.Engine
	criteria Criteria
}

// New creates an auditor.
func New(styles *compare.Engine, pixels *pixeldiff.Engine, criteria Criteria) *Auditor {
	if styles == nil {
		styles = compare.NewEngine(compare.DefaultOptions())
	}
	if pixels == nil {
		pixels = pixeldiff.NewEngine(pixeldiff.DefaultOptions())
	}
	return &Auditor{styles: styles, pixels: pixels, criteria: criteria}
}

// Run audits one page. The two halves run concurrently; a screenshot that
// fails to decode aborts the whole audit.
func (a *Auditor) Run(ctx context.Context, in Input) (*Report, error) {
	if !in.hasStyles() && !in.hasPixels() {
		return nil, ErrNothingToAudit
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := &Report{
		ID:        uuid.NewString(),
		Name:      in.Name,
		StartedAt: time.Now(),
		Criteria:  a.criteria,
	}

	g, gctx := errgroup.WithContext(ctx)
	if in.hasStyles() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep.Styles = a.styles.CompareWithComponents(in.Tree, in.Tokens, in.Components)
			return nil
		})
	}
	if in.hasPixels() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := a.pixels.Compare(in.Expected, in.Actual)
			if err != nil {
				return fmt.Errorf("compare screenshots: %w", err)
			}
			rep.Pixels = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("audit", rep.ID).Msg("audit failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep.FinishedAt = time.Now()
	rep.Failures = a.criteria.evaluate(rep)
	rep.Passed = len(rep.Failures) == 0

	ev := log.Info().
		Str("audit", rep.ID).
		Str("name", rep.Name).
		Bool("passed", rep.Passed).
		Dur("took", rep.FinishedAt.Sub(rep.StartedAt))
	if rep.Styles != nil {
		ev = ev.Int("score", rep.Styles.OverallScore).Int("mismatches", rep.Styles.Summary.Total)
	}
	if rep.Pixels != nil {
		ev = ev.Float64("match", rep.Pixels.MatchPercentage).Int("regions", len(rep.Pixels.Regions))
	}
	ev.Msg("audit complete")

	return rep, nil
}

func (c Criteria) evaluate(rep *Report) []string {
	var failures []string
	if rep.Styles != nil && rep.Styles.OverallScore < c.MinScore {
		failures = append(failures, fmt.Sprintf("style score %d is below %d", rep.Styles.OverallScore, c.MinScore))
	}
	if rep.Pixels != nil && rep.Pixels.MatchPercentage < c.MinMatch {
		failures = append(failures, fmt.Sprintf("pixel match %.2f%% is below %.2f%%", rep.Pixels.MatchPercentage, c.MinMatch))
	}
	return failures
}
