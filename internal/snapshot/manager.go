package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/standardbeagle/designcheck/internal/pixeldiff"
)

// Manager creates baselines and compares captures against them.
type Manager struct {
	storage  *Storage
	engine   *pixeldiff.Engine
	minMatch float64
}

// NewManager creates a manager rooted at root. Pages matching less than
// minMatch percent of their baseline count as regressions.
func NewManager(root string, engine *pixeldiff.Engine, minMatch float64) (*Manager, error) {
	storage, err := NewStorage(root)
	if err != nil {
		return nil, fmt.Errorf("create storage: %w", err)
	}
	if engine == nil {
		engine = pixeldiff.NewEngine(pixeldiff.DefaultOptions())
	}
	return &Manager{storage: storage, engine: engine, minMatch: minMatch}, nil
}

// Storage returns the underlying storage.
func (m *Manager) Storage() *Storage { return m.storage }

// CreateBaseline decodes each capture and stores it as PNG under name,
// replacing any baseline of the same name. Nothing is written until every
// capture has decoded.
func (m *Manager) CreateBaseline(ctx context.Context, name string, captures []Capture) (*Baseline, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if len(captures) == 0 {
		return nil, errors.New("no pages to capture")
	}

	commit, branch := gitInfo(ctx)
	b := &Baseline{
		Name:      name,
		CreatedAt: time.Now(),
		GitCommit: commit,
		GitBranch: branch,
		Pages:     make([]Page, 0, len(captures)),
	}

	screenshots := make(map[string][]byte, len(captures))
	seen := make(map[string]bool, len(captures))
	for i, c := range captures {
		key := c.key()
		if key == "" {
			return nil, fmt.Errorf("page %d has neither name nor url", i)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate page %q", key)
		}
		seen[key] = true

		img, err := pixeldiff.DecodeString(c.Screenshot)
		if err != nil {
			return nil, &pixeldiff.DecodeError{Input: "screenshot for " + key, Err: err}
		}
		data, err := pixeldiff.EncodePNG(img)
		if err != nil {
			return nil, err
		}
		file := screenshotFile(key, i)
		screenshots[file] = data

		bounds := img.Bounds()
		b.Pages = append(b.Pages, Page{
			Name:       key,
			URL:        c.URL,
			Viewport:   c.Viewport,
			Screenshot: file,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
			CapturedAt: time.Now(),
			Metadata:   c.Metadata,
		})
	}

	if err := m.storage.SaveBaseline(b, screenshots); err != nil {
		return nil, fmt.Errorf("save baseline: %w", err)
	}
	log.Info().Str("baseline", name).Int("pages", len(b.Pages)).Str("commit", commit).Msg("baseline created")
	return b, nil
}

// CompareToBaseline compares captures to the pages of a baseline. Baseline
// pages without a capture are reported missing; captures without a
// baseline page are listed as unexpected. The report and its images are
// written under a fresh diff directory.
func (m *Manager) CompareToBaseline(ctx context.Context, name string, captures []Capture) (*Report, error) {
	b, err := m.storage.LoadBaseline(name)
	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}

	rep := &Report{
		ID:        uuid.NewString(),
		Baseline:  name,
		CreatedAt: time.Now(),
		Pages:     make([]PageDiff, 0, len(b.Pages)),
		Summary:   Summary{TotalPages: len(b.Pages)},
	}
	rep.Dir, err = m.storage.CreateDiffDir(name, rep.ID)
	if err != nil {
		return nil, err
	}

	current := make(map[string]Capture, len(captures))
	for _, c := range captures {
		current[c.key()] = c
	}

	matchSum := 0.0
	compared := 0
	for _, page := range b.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, ok := current[page.Name]
		if !ok {
			rep.Pages = append(rep.Pages, PageDiff{
				Name:        page.Name,
				Missing:     true,
				Changed:     true,
				Description: "page not captured",
			})
			rep.Summary.PagesMissing++
			rep.Summary.PagesChanged++
			continue
		}
		delete(current, page.Name)

		diff, err := m.comparePage(rep.Dir, name, page, c)
		if err != nil {
			return nil, fmt.Errorf("compare %s: %w", page.Name, err)
		}
		rep.Pages = append(rep.Pages, *diff)

		matchSum += diff.MatchPercentage
		compared++
		if diff.Changed {
			rep.Summary.PagesChanged++
		} else {
			rep.Summary.PagesUnchanged++
		}
		if diff.Regression {
			rep.Summary.Regressions++
		}
	}

	for _, c := range captures {
		if _, left := current[c.key()]; left {
			rep.Summary.Unexpected = append(rep.Summary.Unexpected, c.key())
		}
	}
	if compared > 0 {
		rep.Summary.AverageMatch = math.Round(matchSum/float64(compared)*100) / 100
	}

	if err := m.storage.SaveReport(rep); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	log.Info().
		Str("baseline", name).
		Str("report", rep.ID).
		Int("changed", rep.Summary.PagesChanged).
		Int("regressions", rep.Summary.Regressions).
		Msg("baseline comparison complete")
	return rep, nil
}

func (m *Manager) comparePage(dir, baseline string, page Page, c Capture) (*PageDiff, error) {
	cur, err := pixeldiff.DecodeString(c.Screenshot)
	if err != nil {
		return nil, &pixeldiff.DecodeError{Input: "current screenshot", Err: err}
	}

	basePath := m.storage.ScreenshotPath(baseline, page.Screenshot)
	data, err := os.ReadFile(basePath)
	if err != nil {
		return nil, fmt.Errorf("read baseline screenshot: %w", err)
	}
	base, err := pixeldiff.Decode(data)
	if err != nil {
		return nil, &pixeldiff.DecodeError{Input: "baseline screenshot", Err: err}
	}

	res := m.engine.CompareImages(base, cur)

	stem := strings.TrimSuffix(page.Screenshot, filepath.Ext(page.Screenshot))
	out := &PageDiff{
		Name:              page.Name,
		MatchPercentage:   res.MatchPercentage,
		MismatchedPixels:  res.MismatchedPixels,
		Regions:           res.Regions,
		Changed:           !res.Identical(),
		Regression:        res.MatchPercentage < m.minMatch,
		Description:       describe(res),
		BaselineImagePath: basePath,
	}
	writes := []struct {
		path *string
		name string
		img  image.Image
	}{
		{&out.CurrentImagePath, stem + "-current.png", cur},
		{&out.DiffImagePath, stem + "-diff.png", res.Diff},
		{&out.SideBySidePath, stem + "-side-by-side.png", res.SideBySide()},
	}
	for _, w := range writes {
		data, err := pixeldiff.EncodePNG(w.img)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, w.name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", w.name, err)
		}
		*w.path = path
	}
	return out, nil
}

func describe(res *pixeldiff.Result) string {
	changed := 100 - res.MatchPercentage
	switch {
	case res.MismatchedPixels == 0:
		return "no visual changes"
	case changed < 0.1:
		return fmt.Sprintf("minimal changes in %d region(s)", len(res.Regions))
	case changed < 1:
		return fmt.Sprintf("minor changes (%.2f%%) in %d region(s)", changed, len(res.Regions))
	case changed < 5:
		return fmt.Sprintf("moderate changes (%.2f%%) in %d region(s)", changed, len(res.Regions))
	default:
		return fmt.Sprintf("significant changes (%.2f%%) in %d region(s)", changed, len(res.Regions))
	}
}

// ListBaselines returns all baselines, newest first.
func (m *Manager) ListBaselines() ([]*Baseline, error) {
	return m.storage.ListBaselines()
}

// GetBaseline loads one baseline.
func (m *Manager) GetBaseline(name string) (*Baseline, error) {
	return m.storage.LoadBaseline(name)
}

// DeleteBaseline removes a baseline.
func (m *Manager) DeleteBaseline(name string) error {
	if err := m.storage.DeleteBaseline(name); err != nil {
		return err
	}
	log.Info().Str("baseline", name).Msg("baseline deleted")
	return nil
}

func screenshotFile(key string, index int) string {
	sum := sha256.Sum256([]byte(key))

	slug := strings.TrimPrefix(key, "http://")
	slug = strings.TrimPrefix(slug, "https://")
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, slug)
	if len(slug) > 30 {
		slug = slug[:30]
	}
	return fmt.Sprintf("%02d_%s_%s.png", index, slug, hex.EncodeToString(sum[:])[:8])
}

// gitInfo returns the short commit and branch of the working directory, or
// empty strings outside a repository.
func gitInfo(ctx context.Context) (commit, branch string) {
	if out, err := exec.CommandContext(ctx, "git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		commit = strings.TrimSpace(string(out))
	}
	if out, err := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD").Output(); err == nil {
		branch = strings.TrimSpace(string(out))
	}
	return commit, branch
}
