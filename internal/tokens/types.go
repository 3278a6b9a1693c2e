// Package tokens holds design token sets and the nearest-token matcher used
// by the style comparison engine.
package tokens

import (
	"sort"

	"github.com/standardbeagle/designcheck/internal/colordist"
)

// Set is the collection of design tokens a page is checked against.
//
// Matching walks each collection in slice order and keeps the first minimum,
// so callers must supply tokens in a stable order. Spacing is always matched
// in ascending value order (see SortedSpacing).
type Set struct {
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Colors     []ColorToken      `json:"colors,omitempty" yaml:"colors,omitempty"`
	Typography []TypographyToken `json:"typography,omitempty" yaml:"typography,omitempty"`
	Spacing    []SpacingToken    `json:"spacing,omitempty" yaml:"spacing,omitempty"`
	Radii      []SpacingToken    `json:"radii,omitempty" yaml:"radii,omitempty"`
	Effects    []EffectToken     `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// ColorToken is a named color. RGBA is derived from Hex when loading.
type ColorToken struct {
	Name string         `json:"name" yaml:"name"`
	Hex  string         `json:"hex" yaml:"hex"`
	RGBA colordist.RGBA `json:"rgba" yaml:"-"`
}

// TypographyToken is one text style. Sizes are in pixels.
type TypographyToken struct {
	Name          string  `json:"name" yaml:"name"`
	FontFamily    string  `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontSize      float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontWeight    float64 `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	LetterSpacing float64 `json:"letterSpacing,omitempty" yaml:"letterSpacing,omitempty"`
}

// SpacingToken is a named pixel value. Also used for the radius scale.
type SpacingToken struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// EffectToken describes a shadow or blur.
type EffectToken struct {
	Name   string  `json:"name" yaml:"name"`
	Type   string  `json:"type" yaml:"type"` // drop-shadow, inner-shadow, layer-blur, background-blur
	X      float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Blur   float64 `json:"blur,omitempty" yaml:"blur,omitempty"`
	Spread float64 `json:"spread,omitempty" yaml:"spread,omitempty"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// SortedSpacing returns the spacing tokens in ascending value order. The sort
// is stable so equal values keep their file order.
func (s *Set) SortedSpacing() []SpacingToken {
	return sortedByValue(s.Spacing)
}

// SortedRadii returns the radius tokens in ascending value order.
func (s *Set) SortedRadii() []SpacingToken {
	return sortedByValue(s.Radii)
}

func sortedByValue(in []SpacingToken) []SpacingToken {
	out := make([]SpacingToken, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value < out[j].Value
	})
	return out
}

// FontSizes returns a candidate per typography token with a font size.
func (s *Set) FontSizes() []Candidate {
	var out []Candidate
	for _, t := range s.Typography {
		if t.FontSize > 0 {
			out = append(out, Candidate{Name: t.Name, Value: t.FontSize})
		}
	}
	return out
}

// FontWeights returns a candidate per typography token with a font weight.
func (s *Set) FontWeights() []Candidate {
	var out []Candidate
	for _, t := range s.Typography {
		if t.FontWeight > 0 {
			out = append(out, Candidate{Name: t.Name, Value: t.FontWeight})
		}
	}
	return out
}

// LineHeights returns a candidate per typography token with a line height.
func (s *Set) LineHeights() []Candidate {
	var out []Candidate
	for _, t := range s.Typography {
		if t.LineHeight > 0 {
			out = append(out, Candidate{Name: t.Name, Value: t.LineHeight})
		}
	}
	return out
}

// FontFamilies returns the distinct families in token order.
func (s *Set) FontFamilies() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.Typography {
		if t.FontFamily == "" || seen[t.FontFamily] {
			continue
		}
		seen[t.FontFamily] = true
		out = append(out, t.FontFamily)
	}
	return out
}

// SpacingCandidates converts sorted spacing tokens to matcher candidates.
func SpacingCandidates(in []SpacingToken) []Candidate {
	out := make([]Candidate, 0, len(in))
	for _, t := range in {
		out = append(out, Candidate{Name: t.Name, Value: t.Value})
	}
	return out
}
