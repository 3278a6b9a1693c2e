package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/designcheck/internal/audit"
	"github.com/standardbeagle/designcheck/internal/compare"
	"github.com/standardbeagle/designcheck/internal/config"
	"github.com/standardbeagle/designcheck/internal/pixeldiff"
)

func TestFormatFlag(t *testing.T) {
	assert.NoError(t, formatFlag("json"))
	assert.NoError(t, formatFlag("text"))
	assert.ErrorContains(t, formatFlag("xml"), "unknown format")
}

func TestAppFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.PixelDiff.Threshold = 0.3
	cfg.Audit.MinScore = 70

	a := appFromConfig(cfg)
	assert.Equal(t, 0.3, a.pixels.Options().Threshold)
	assert.Equal(t, cfg.Tolerances.Color, a.styles.Options().Tolerances.Color)
	assert.Same(t, cfg, a.cfg)
}

func TestStyleReport(t *testing.T) {
	r := &compare.Result{
		Mismatches: []compare.Mismatch{{
			Category: compare.CategoryColor,
			Severity: compare.SeverityMajor,
			Property: "color",
			Expected: "#00ff00",
			Actual:   "#ff0000",
			Locator:  "button.cta",
			Token:    "green",
		}},
		CategoryScores: map[compare.Category]int{compare.CategoryColor: 95},
		OverallScore:   98,
		Summary:        compare.Summary{Total: 1, Major: 1},
		Elements:       4,
	}

	out := styleReport(r)
	assert.Contains(t, out, "score 98/100, 4 elements, 1 mismatches")
	assert.Contains(t, out, "color 95 (1)")
	assert.Contains(t, out, "[major] button.cta color: #ff0000, expected #00ff00 (green)")
	assert.Contains(t, out, "spacing 0")
}

func TestPixelReportSortsRegions(t *testing.T) {
	r := &pixeldiff.Result{
		Width: 100, Height: 100, TotalPixels: 10000,
		MismatchedPixels: 500, AntiAliasedPixels: 3, MatchPercentage: 95,
		Regions: []pixeldiff.Region{
			{X: 0, Y: 0, Width: 10, Height: 10, Pixels: 100},
			{X: 50, Y: 50, Width: 20, Height: 20, Pixels: 400},
		},
	}

	out := pixelReport(r)
	assert.Contains(t, out, "95.00% match, 500 of 10000 pixels differ (100x100)")
	assert.Contains(t, out, "3 anti-aliased pixels ignored")
	big := bytes.Index([]byte(out), []byte("20x20+50+50"))
	small := bytes.Index([]byte(out), []byte("10x10+0+0"))
	require.True(t, big >= 0 && small >= 0)
	assert.Less(t, big, small)
	assert.Equal(t, 100, r.Regions[0].Pixels, "input order is left alone")
}

func TestAuditReport(t *testing.T) {
	rep := &audit.Report{
		ID:       "abc",
		Passed:   false,
		Failures: []string{"match 90.00% below 95.00%"},
		Pixels:   &pixeldiff.Result{MatchPercentage: 90},
	}
	out := auditReport(rep)
	assert.Contains(t, out, "FAIL abc")
	assert.Contains(t, out, "match 90.00% below 95.00%")
	assert.Contains(t, out, "90.00% match")
}

func writeSquare(t *testing.T, path string, mark bool) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	if mark {
		for y := 0; y < 10; y++ {
			for x := 0; x < 10; x++ {
				img.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	data, err := pixeldiff.EncodePNG(img)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestWriteImage(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, writeImage("", nil))

	path := filepath.Join(dir, "out.png")
	require.NoError(t, writeImage(path, image.NewNRGBA(image.Rect(0, 0, 4, 4))))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := pixeldiff.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestPixelsCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	expected := filepath.Join(dir, "expected.png")
	actual := filepath.Join(dir, "actual.png")
	writeSquare(t, expected, false)
	writeSquare(t, actual, true)
	sbs := filepath.Join(dir, "sbs.png")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"pixels", expected, actual, "--format", "text", "--side-by-side", sbs, "--min-match", "95"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		sideBySide, minMatch, outputFormat = "", 0, "json"
	})

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out.String(), "100 of 900 pixels differ")
	assert.Contains(t, out.String(), "10x10+0+0 (100 px)")
	assert.FileExists(t, sbs)
}
