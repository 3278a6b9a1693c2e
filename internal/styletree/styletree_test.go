package styletree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTree = `{
  "tag": "BODY",
  "styles": {"background-color": "rgb(255, 255, 255)"},
  "children": [
    {"tag": "header", "id": "top", "children": [
      {"tag": "a", "className": "logo brand"}
    ]},
    {"tag": "main", "children": [
      {"tag": "p"},
      {"tag": "button", "classes": ["btn", "btn-primary"], "styles": {"color": "rgb(255,0,0)", "font-size": "24px"}}
    ]}
  ]
}`

func TestParseAndLocators(t *testing.T) {
	root, err := Parse([]byte(sampleTree))
	require.NoError(t, err)

	var locs []string
	root.Walk(func(el *Element, loc string) bool {
		locs = append(locs, loc)
		return true
	})

	assert.Equal(t, []string{
		"body",
		"header#top",
		"header#top > a.logo",
		"body > main:nth-child(2)",
		"body > main:nth-child(2) > p:nth-child(1)",
		"body > main:nth-child(2) > button.btn",
	}, locs)
	assert.Equal(t, 6, root.Count())
}

func TestWalkStops(t *testing.T) {
	root, err := Parse([]byte(sampleTree))
	require.NoError(t, err)

	visited := 0
	root.Walk(func(el *Element, _ string) bool {
		visited++
		return el.Tag != "header"
	})
	assert.Equal(t, 2, visited)
}

func TestClassesFromString(t *testing.T) {
	root, err := Parse([]byte(`{"tag":"div","classes":"card  elevated"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"card", "elevated"}, root.Classes)
}

func TestParseRejectsTaglessRoot(t *testing.T) {
	_, err := Parse([]byte(`{"id":"x"}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestStyleFallbacks(t *testing.T) {
	e := &Element{Styles: map[string]string{
		"border-top-width": "2px",
		"border-width":     " ",
	}}
	v, ok := e.Length("border-width", "border-top-width")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = e.Style("missing")
	assert.False(t, ok)
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"24px", 24, true},
		{" 16.5px ", 16.5, true},
		{"0", 0, true},
		{"auto", 0, false},
		{"normal", 0, false},
		{"1.5em", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"infpx", 0, false},
		{"-Infinity", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLength(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFontHelpers(t *testing.T) {
	w, ok := ParseFontWeight("bold")
	require.True(t, ok)
	assert.Equal(t, 700.0, w)

	w, ok = ParseFontWeight("600")
	require.True(t, ok)
	assert.Equal(t, 600.0, w)

	_, ok = ParseFontWeight("nan")
	assert.False(t, ok)

	assert.Equal(t, "inter", PrimaryFontFamily(`"Inter", system-ui, sans-serif`))
	assert.Equal(t, "32px", FormatPx(32))
	assert.Equal(t, "1.5px", FormatPx(1.5))
}

func TestPrint(t *testing.T) {
	root, err := Parse([]byte(sampleTree))
	require.NoError(t, err)

	out := Print(root, false)
	assert.Contains(t, out, "body")
	assert.Contains(t, out, "header#top")
	assert.Contains(t, out, "button.btn.btn-primary")
	assert.NotContains(t, out, "font-size")

	out = Print(root, true)
	assert.Contains(t, out, "font-size: 24px")
}
