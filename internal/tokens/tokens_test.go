package tokens

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/designcheck/internal/colordist"
)

func TestNearestValue(t *testing.T) {
	candidates := []Candidate{
		{Name: "body", Value: 16},
		{Name: "h2", Value: 24},
		{Name: "h1", Value: 32},
	}

	tests := []struct {
		name      string
		actual    float64
		tolerance float64
		mismatch  bool
		token     string
		deviation float64
	}{
		{"exact", 24, 2, false, "", 0},
		{"within tolerance", 17.5, 2, false, "", 0},
		{"at tolerance boundary", 18, 2, false, "", 0},
		{"just past tolerance", 21, 2, true, "h2", 3},
		{"far above largest", 40, 2, true, "h1", 8},
		{"below smallest", 10, 2, true, "body", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mismatch := NearestValue(tt.actual, candidates, tt.tolerance)
			assert.Equal(t, tt.mismatch, mismatch)
			if tt.mismatch {
				assert.Equal(t, tt.token, m.Token)
				assert.Equal(t, tt.deviation, m.Deviation)
			}
		})
	}
}

func TestNearestValueTieGoesToFirst(t *testing.T) {
	candidates := []Candidate{{Name: "sm", Value: 8}, {Name: "md", Value: 16}}
	m, mismatch := NearestValue(12, candidates, 1)
	require.True(t, mismatch)
	assert.Equal(t, "sm", m.Token)

	// Reversed input order flips the winner.
	m, _ = NearestValue(12, []Candidate{candidates[1], candidates[0]}, 1)
	assert.Equal(t, "md", m.Token)
}

func TestNearestValueEmpty(t *testing.T) {
	_, mismatch := NearestValue(100, nil, 0)
	assert.False(t, mismatch)
}

func TestNearestColor(t *testing.T) {
	set := &Set{Colors: []ColorToken{
		{Name: "brand", Hex: "#3366cc"},
		{Name: "success", Hex: "#00FF00"},
	}}
	set.Normalize()

	_, mismatch := NearestColor(colordist.MustParse("#3366cd"), set.Colors, 5, colordist.CIE76)
	assert.False(t, mismatch, "near-identical color is within tolerance")

	m, mismatch := NearestColor(colordist.MustParse("rgb(255, 0, 0)"), set.Colors[1:], 5, colordist.CIE76)
	require.True(t, mismatch)
	assert.Equal(t, "success", m.Token)
	assert.Equal(t, "#00FF00", m.Expected)
	assert.Greater(t, m.Deviation, 100.0)

	_, mismatch = NearestColor(colordist.MustParse("red"), nil, 5, colordist.CIE76)
	assert.False(t, mismatch)
}

func TestSortedSpacingIsStable(t *testing.T) {
	set := &Set{Spacing: []SpacingToken{
		{Name: "lg", Value: 24},
		{Name: "xs", Value: 4},
		{Name: "gutter", Value: 16},
		{Name: "md", Value: 16},
	}}
	sorted := set.SortedSpacing()
	names := make([]string, 0, len(sorted))
	for _, s := range sorted {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"xs", "gutter", "md", "lg"}, names)
	assert.Equal(t, "lg", set.Spacing[0].Name, "input must not be reordered")
}

func TestNormalizeDropsInvalidColors(t *testing.T) {
	set := &Set{Colors: []ColorToken{
		{Name: "ok", Hex: "#fff"},
		{Name: "broken", Hex: "not-a-color"},
	}}
	set.Normalize()
	require.Len(t, set.Colors, 1)
	assert.Equal(t, "ok", set.Colors[0].Name)
	assert.Equal(t, colordist.RGBA{R: 255, G: 255, B: 255, A: 1}, set.Colors[0].RGBA)
}

func TestLoadFileYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "tokens.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
name: acme
colors:
  - name: primary
    hex: "#1a73e8"
typography:
  - name: body
    fontFamily: Inter
    fontSize: 16
    fontWeight: 400
    lineHeight: 24
spacing:
  - name: md
    value: 16
  - name: sm
    value: 8
`), 0644))

	set, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "acme", set.Name)
	require.Len(t, set.Colors, 1)
	assert.Equal(t, uint8(0x1a), set.Colors[0].RGBA.R)
	assert.Equal(t, []string{"Inter"}, set.FontFamilies())
	assert.Equal(t, "sm", set.SortedSpacing()[0].Name)

	jsonPath := filepath.Join(dir, "tokens.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
	"colors": [{"name": "ink", "hex": "#111111"}],
	"radii": [{"name": "card", "value": 8}]
}`), 0644))

	set, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "ink", set.Colors[0].Name)
	assert.Equal(t, 8.0, set.SortedRadii()[0].Value)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestSniffExt(t *testing.T) {
	assert.Equal(t, ".json", SniffExt([]byte("  {\"colors\": []}")))
	assert.Equal(t, ".json", SniffExt([]byte("[]")))
	assert.Equal(t, ".yaml", SniffExt([]byte("colors:\n  - name: ink\n")))
}
