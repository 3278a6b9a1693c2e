package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrBaselineNotFound is returned for a baseline that does not exist.
var ErrBaselineNotFound = errors.New("baseline not found")

const metadataFile = "metadata.json"

// Staging directories live next to baselines and are skipped by listings.
const stagePrefix = "."

// Storage lays baselines out under root/baselines/<name> and comparison
// reports under root/diffs/<baseline>-<id>.
type Storage struct {
	root string
}

// NewStorage creates the storage directories. An empty root resolves to
// ~/.designcheck.
func NewStorage(root string) (*Storage, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		root = filepath.Join(home, ".designcheck")
	}
	s := &Storage{root: root}
	for _, dir := range []string{s.baselinesDir(), s.diffsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return s, nil
}

// Root returns the storage root.
func (s *Storage) Root() string { return s.root }

func (s *Storage) baselinesDir() string { return filepath.Join(s.root, "baselines") }
func (s *Storage) diffsDir() string     { return filepath.Join(s.root, "diffs") }

// BaselineDir returns the directory of a baseline.
func (s *Storage) BaselineDir(name string) string {
	return filepath.Join(s.baselinesDir(), name)
}

// ValidateName rejects names that cannot be used as a single directory.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("baseline name is empty")
	case strings.HasPrefix(name, stagePrefix):
		return fmt.Errorf("baseline name %q must not start with %q", name, stagePrefix)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("baseline name %q must not contain path separators", name)
	}
	return nil
}

// SaveBaseline writes the baseline metadata and its screenshots, keyed by
// file name, into a staging directory and then swaps it into place. A
// failure leaves any previous baseline of the same name untouched.
func (s *Storage) SaveBaseline(b *Baseline, screenshots map[string][]byte) error {
	if err := ValidateName(b.Name); err != nil {
		return err
	}
	stage, err := os.MkdirTemp(s.baselinesDir(), stagePrefix+b.Name+"-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	for file, data := range screenshots {
		if err := os.WriteFile(filepath.Join(stage, file), data, 0644); err != nil {
			return fmt.Errorf("write screenshot: %w", err)
		}
	}
	if err := writeJSON(filepath.Join(stage, metadataFile), b); err != nil {
		return err
	}

	dir := s.BaselineDir(b.Name)
	var old string
	if _, err := os.Stat(dir); err == nil {
		old = stage + ".old"
		if err := os.Rename(dir, old); err != nil {
			return fmt.Errorf("move previous baseline: %w", err)
		}
	}
	if err := os.Rename(stage, dir); err != nil {
		if old != "" {
			os.Rename(old, dir)
		}
		return fmt.Errorf("install baseline: %w", err)
	}
	if old != "" {
		os.RemoveAll(old)
	}
	return nil
}

// LoadBaseline reads a baseline's metadata.
func (s *Storage) LoadBaseline(name string) (*Baseline, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.BaselineDir(name), metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBaselineNotFound, name)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &b, nil
}

// ListBaselines returns every readable baseline, newest first.
func (s *Storage) ListBaselines() ([]*Baseline, error) {
	entries, err := os.ReadDir(s.baselinesDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*Baseline{}, nil
		}
		return nil, fmt.Errorf("read baselines dir: %w", err)
	}

	baselines := []*Baseline{}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), stagePrefix) {
			continue
		}
		b, err := s.LoadBaseline(entry.Name())
		if err != nil {
			continue
		}
		baselines = append(baselines, b)
	}
	sort.SliceStable(baselines, func(i, j int) bool {
		return baselines[i].CreatedAt.After(baselines[j].CreatedAt)
	})
	return baselines, nil
}

// DeleteBaseline removes a baseline and its screenshots.
func (s *Storage) DeleteBaseline(name string) error {
	if _, err := s.LoadBaseline(name); err != nil {
		return err
	}
	if err := os.RemoveAll(s.BaselineDir(name)); err != nil {
		return fmt.Errorf("remove baseline: %w", err)
	}
	return nil
}

// ScreenshotPath returns the path of a baseline screenshot.
func (s *Storage) ScreenshotPath(baseline, file string) string {
	return filepath.Join(s.BaselineDir(baseline), file)
}

// CreateDiffDir creates the directory for one comparison report.
func (s *Storage) CreateDiffDir(baseline, id string) (string, error) {
	dir := filepath.Join(s.diffsDir(), baseline+"-"+id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create diff dir: %w", err)
	}
	return dir, nil
}

// SaveReport writes report.json into the report's directory.
func (s *Storage) SaveReport(r *Report) error {
	return writeJSON(filepath.Join(r.Dir, "report.json"), r)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
