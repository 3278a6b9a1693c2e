package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/designcheck/internal/styletree"
	"github.com/standardbeagle/designcheck/internal/tokens"
)

func TestSubstringMatcher(t *testing.T) {
	m := SubstringMatcher{}
	tests := []struct {
		name      string
		component string
		el        *styletree.Element
		want      bool
	}{
		{"class contains name", "Button/Primary", &styletree.Element{Classes: []string{"button-primary-lg"}}, true},
		{"id equals name", "Hero", &styletree.Element{ID: "hero"}, true},
		{"name contains class", "Primary Button", &styletree.Element{Classes: []string{"button"}}, true},
		{"short class ignored", "Primary Button", &styletree.Element{Classes: []string{"btn"}}, false},
		{"no identifiers", "Card", &styletree.Element{Tag: "div"}, false},
		{"empty name", "  / ", &styletree.Element{ID: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(Component{Name: tt.component}, tt.el))
		})
	}
}

func TestComponentDiffFirstMatchWins(t *testing.T) {
	root := &styletree.Element{
		Tag: "main",
		Children: []*styletree.Element{
			{
				Tag:     "button",
				Classes: []string{"button-primary"},
				Styles: map[string]string{
					"height":          "48px",
					"padding-left":    "16px",
					"padding-top":     "8px",
					"display":         "inline-flex",
					"justify-content": "flex-start",
				},
			},
			{
				Tag:     "button",
				Classes: []string{"button-primary"},
				Styles:  map[string]string{"height": "90px"},
			},
		},
	}
	components := []Component{{
		Name: "Button Primary",
		Styles: map[string]string{
			"height":          "40px",
			"padding":         "8px 16px",
			"display":         "inline-flex",
			"justify-content": "center",
		},
	}}

	result := NewEngine(DefaultOptions()).CompareWithComponents(root, &tokens.Set{}, components)

	require.Len(t, result.Mismatches, 2)

	size := result.Mismatches[0]
	assert.Equal(t, CategorySize, size.Category)
	assert.Equal(t, SeverityMajor, size.Severity)
	assert.Equal(t, "height", size.Property)
	assert.Equal(t, "40px", size.Expected)
	assert.Equal(t, "48px", size.Actual)
	assert.Equal(t, 8.0, size.Deviation)
	assert.Equal(t, "Button Primary", size.Token)
	assert.Equal(t, "main > button.button-primary", size.Locator)

	align := result.Mismatches[1]
	assert.Equal(t, CategoryAlignment, align.Category)
	assert.Equal(t, "center", align.Expected)
	assert.Equal(t, "flex-start", align.Actual)

	assert.Equal(t, 90, result.CategoryScores[CategorySize])
	assert.Equal(t, 90, result.CategoryScores[CategoryAlignment])
}

type idMatcher struct{}

func (idMatcher) Matches(c Component, el *styletree.Element) bool {
	return el.ID == c.Name
}

func TestCustomComponentMatcher(t *testing.T) {
	root := &styletree.Element{
		Tag: "div",
		Children: []*styletree.Element{
			{Tag: "nav", ID: "nav", Styles: map[string]string{"display": "block"}},
		},
	}
	opts := DefaultOptions()
	opts.Matcher = idMatcher{}

	result := NewEngine(opts).CompareWithComponents(root, nil, []Component{
		{Name: "nav", Styles: map[string]string{"display": "flex"}},
		{Name: "missing", Styles: map[string]string{"display": "grid"}},
	})

	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, CategoryLayout, result.Mismatches[0].Category)
	assert.Equal(t, "nav#nav", result.Mismatches[0].Locator)
}

func TestExpandPadding(t *testing.T) {
	got := expandPadding(map[string]string{"padding": "1px 2px 3px", "padding-left": "9px"})
	assert.Equal(t, "1px", got["padding-top"])
	assert.Equal(t, "2px", got["padding-right"])
	assert.Equal(t, "3px", got["padding-bottom"])
	assert.Equal(t, "9px", got["padding-left"])
}
