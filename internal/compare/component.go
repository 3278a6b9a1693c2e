package compare

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/standardbeagle/designcheck/internal/styletree"
	"github.com/standardbeagle/designcheck/internal/tokens"
)

// Component is a named design component with its resolved styles, keyed by
// CSS property name.
type Component struct {
	Name   string            `json:"name" yaml:"name"`
	Styles map[string]string `json:"styles" yaml:"styles"`
}

// ComponentMatcher decides whether an element renders a design component.
// The engine diffs each component against the first element in pre-order
// for which Matches returns true.
type ComponentMatcher interface {
	Matches(c Component, el *styletree.Element) bool
}

// SubstringMatcher matches when the normalized component name and an element
// id or class contain one another. Normalizing drops case and every
// non-alphanumeric rune, so "Button/Primary" matches "button-primary".
type SubstringMatcher struct{}

// minReverseMatch keeps very short classes ("a", "btn") from matching every
// longer component name they happen to appear in.
const minReverseMatch = 4

// Matches implements ComponentMatcher.
func (SubstringMatcher) Matches(c Component, el *styletree.Element) bool {
	key := normalizeName(c.Name)
	if key == "" {
		return false
	}

	candidates := make([]string, 0, len(el.Classes)+1)
	candidates = append(candidates, el.ID)
	candidates = append(candidates, el.Classes...)

	for _, cand := range candidates {
		n := normalizeName(cand)
		if n == "" {
			continue
		}
		if strings.Contains(n, key) {
			return true
		}
		if len(n) >= minReverseMatch && strings.Contains(key, n) {
			return true
		}
	}
	return false
}

func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type componentProperty struct {
	name     string
	category Category
}

// Numeric properties diffed for matched components.
var componentLengths = []componentProperty{
	{"width", CategorySize},
	{"height", CategorySize},
	{"padding-top", CategorySpacing},
	{"padding-right", CategorySpacing},
	{"padding-bottom", CategorySpacing},
	{"padding-left", CategorySpacing},
	{"gap", CategorySpacing},
	{"font-size", CategoryTypography},
	{"border-radius", CategoryBorder},
}

// Keyword properties diffed for matched components.
var componentKeywords = []componentProperty{
	{"display", CategoryLayout},
	{"flex-direction", CategoryLayout},
	{"justify-content", CategoryAlignment},
	{"align-items", CategoryAlignment},
	{"text-align", CategoryAlignment},
}

func (r *run) matchComponents(root *styletree.Element, components []Component) {
	for _, c := range components {
		var found *styletree.Element
		var foundLoc string
		root.Walk(func(el *styletree.Element, loc string) bool {
			if r.opts.Matcher.Matches(c, el) {
				found, foundLoc = el, loc
				return false
			}
			return true
		})
		if found != nil {
			r.diffComponent(c, found, foundLoc)
		}
	}
}

func (r *run) diffComponent(c Component, el *styletree.Element, loc string) {
	want := expandPadding(c.Styles)

	for _, p := range componentLengths {
		expected, ok := styletree.ParseLength(want[p.name])
		if !ok {
			continue
		}
		raw, ok := el.Style(p.name)
		if !ok {
			continue
		}
		actual, ok := styletree.ParseLength(raw)
		if !ok {
			continue
		}
		delta := math.Abs(actual - expected)
		if delta <= r.opts.Tolerances.Spacing {
			continue
		}
		r.add(Mismatch{
			Category:  p.category,
			Severity:  SeverityMajor,
			Property:  p.name,
			Expected:  styletree.FormatPx(expected),
			Actual:    raw,
			Locator:   loc,
			Token:     c.Name,
			Deviation: math.Round(delta*100) / 100,
		})
	}

	for _, p := range componentKeywords {
		expected := strings.TrimSpace(want[p.name])
		if expected == "" {
			continue
		}
		raw, ok := el.Style(p.name)
		if !ok || strings.EqualFold(raw, expected) {
			continue
		}
		r.add(Mismatch{
			Category: p.category,
			Severity: SeverityMajor,
			Property: p.name,
			Expected: expected,
			Actual:   raw,
			Locator:  loc,
			Token:    c.Name,
		})
	}
}

// expandPadding returns styles with a "padding" shorthand expanded into
// longhands that are not already present.
func expandPadding(styles map[string]string) map[string]string {
	short, ok := styles["padding"]
	if !ok {
		return styles
	}
	parts := strings.Fields(short)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return styles
	}

	out := make(map[string]string, len(styles)+4)
	for k, v := range styles {
		out[k] = v
	}
	for k, v := range map[string]string{
		"padding-top": top, "padding-right": right, "padding-bottom": bottom, "padding-left": left,
	} {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// LoadComponents reads a component list from a .json, .yaml or .yml file.
func LoadComponents(path string) ([]Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read components: %w", err)
	}
	components, err := ParseComponents(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse components %s: %w", path, err)
	}
	return components, nil
}

// ParseComponents decodes a component list; ext selects the decoder the
// same way tokens.Parse does.
func ParseComponents(data []byte, ext string) ([]Component, error) {
	var components []Component
	if err := tokens.Unmarshal(data, ext, &components); err != nil {
		return nil, err
	}
	return components, nil
}
