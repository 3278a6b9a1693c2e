package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	tp "github.com/xlab/treeprint"

	"github.com/standardbeagle/designcheck/internal/audit"
	"github.com/standardbeagle/designcheck/internal/compare"
	"github.com/standardbeagle/designcheck/internal/config"
	"github.com/standardbeagle/designcheck/internal/pixeldiff"
)

// app bundles the resolved configuration and the engines built from it.
type app struct {
	cfg     *config.Config
	styles  *compare.Engine
	pixels  *pixeldiff.Engine
	auditor *audit.Auditor
}

func newApp() (*app, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working dir: %w", err)
	}
	cfg, err := config.Load(configPath, wd)
	if err != nil {
		return nil, err
	}
	if src := cfg.Source(); src != "" {
		log.Debug().Str("config", src).Msg("using config file")
	}
	return appFromConfig(cfg), nil
}

func appFromConfig(cfg *config.Config) *app {
	styles := compare.NewEngine(cfg.CompareOptions())
	pixels := pixeldiff.NewEngine(cfg.PixelOptions())
	return &app{
		cfg:     cfg,
		styles:  styles,
		pixels:  pixels,
		auditor: audit.New(styles, pixels, cfg.Criteria()),
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatFlag validates the --format value shared by the report commands.
func formatFlag(format string) error {
	switch format {
	case "json", "text":
		return nil
	}
	return fmt.Errorf("unknown format %q (want json or text)", format)
}

// styleReport renders a comparison result as a tree grouped by category.
func styleReport(r *compare.Result) string {
	root := tp.New()
	root.SetValue(fmt.Sprintf("score %d/100, %d elements, %d mismatches", r.OverallScore, r.Elements, r.Summary.Total))

	for _, c := range compare.Categories {
		ms := r.ByCategory(c)
		label := fmt.Sprintf("%s %d", c, r.CategoryScores[c])
		if len(ms) == 0 {
			root.AddNode(label)
			continue
		}
		branch := root.AddBranch(fmt.Sprintf("%s (%d)", label, len(ms)))
		for _, m := range ms {
			line := fmt.Sprintf("[%s] %s %s: %s, expected %s", m.Severity, m.Locator, m.Property, m.Actual, m.Expected)
			if m.Token != "" {
				line += " (" + m.Token + ")"
			}
			branch.AddNode(line)
		}
	}
	return root.String()
}

// pixelReport renders a pixel diff result with its regions.
func pixelReport(r *pixeldiff.Result) string {
	root := tp.New()
	root.SetValue(fmt.Sprintf("%.2f%% match, %d of %d pixels differ (%dx%d)",
		r.MatchPercentage, r.MismatchedPixels, r.TotalPixels, r.Width, r.Height))
	if r.AntiAliasedPixels > 0 {
		root.AddNode(fmt.Sprintf("%d anti-aliased pixels ignored", r.AntiAliasedPixels))
	}
	if len(r.Regions) > 0 {
		regions := append([]pixeldiff.Region(nil), r.Regions...)
		sort.SliceStable(regions, func(i, j int) bool { return regions[i].Pixels > regions[j].Pixels })
		branch := root.AddBranch(fmt.Sprintf("regions (%d)", len(regions)))
		for _, reg := range regions {
			branch.AddNode(reg.String())
		}
	}
	return root.String()
}

func auditReport(rep *audit.Report) string {
	var sb strings.Builder
	verdict := "PASS"
	if !rep.Passed {
		verdict = "FAIL"
	}
	fmt.Fprintf(&sb, "%s %s\n", verdict, rep.ID)
	for _, f := range rep.Failures {
		fmt.Fprintf(&sb, "  %s\n", f)
	}
	if rep.Styles != nil {
		sb.WriteString(styleReport(rep.Styles))
	}
	if rep.Pixels != nil {
		sb.WriteString(pixelReport(rep.Pixels))
	}
	return sb.String()
}
