package compare

import (
	"math"
	"strings"

	"github.com/standardbeagle/designcheck/internal/colordist"
	"github.com/standardbeagle/designcheck/internal/styletree"
	"github.com/standardbeagle/designcheck/internal/tokens"
)

// Spacing properties checked on every element, in report order.
var spacingProperties = []string{
	"padding-top", "padding-right", "padding-bottom", "padding-left",
	"margin-top", "margin-right", "margin-bottom", "margin-left",
	"gap",
}

// Engine compares style trees against token sets. An Engine holds only
// configuration and is safe for concurrent use; each Compare call owns its
// own state.
type Engine struct {
	opts Options
}

// NewEngine creates an engine. Zero-valued fields of opts that have no
// meaningful zero (matcher, metric, severity table) fall back to defaults.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Matcher == nil {
		opts.Matcher = def.Matcher
	}
	if opts.ColorMetric == "" {
		opts.ColorMetric = def.ColorMetric
	}
	if opts.Severity == nil {
		opts.Severity = def.Severity
	}
	return &Engine{opts: opts}
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Compare checks every element of root against set.
func (e *Engine) Compare(root *styletree.Element, set *tokens.Set) *Result {
	return e.CompareWithComponents(root, set, nil)
}

// CompareWithComponents runs the token checks and then diffs each named
// component against the first element it matches.
func (e *Engine) CompareWithComponents(root *styletree.Element, set *tokens.Set, components []Component) *Result {
	if set == nil {
		set = &tokens.Set{}
	}
	r := newRun(e.opts, set)
	if root != nil {
		root.Walk(func(el *styletree.Element, loc string) bool {
			r.elements++
			r.checkElement(el, loc)
			return true
		})
		r.matchComponents(root, components)
	}
	return r.result()
}

// run is the state of a single comparison. The mismatch counter lives here
// so IDs restart at 1 for every call.
type run struct {
	opts Options

	colors      []tokens.ColorToken
	fontSizes   []tokens.Candidate
	fontWeights []tokens.Candidate
	lineHeights []tokens.Candidate
	spacing     []tokens.Candidate
	radii       []tokens.Candidate
	families    []string
	familySet   map[string]bool

	nextID     int
	mismatches []Mismatch
	elements   int
}

func newRun(opts Options, set *tokens.Set) *run {
	r := &run{
		opts:        opts,
		colors:      tokens.ResolveColors(set.Colors),
		fontSizes:   set.FontSizes(),
		fontWeights: set.FontWeights(),
		lineHeights: set.LineHeights(),
		spacing:     tokens.SpacingCandidates(set.SortedSpacing()),
		radii:       tokens.SpacingCandidates(set.SortedRadii()),
		families:    set.FontFamilies(),
		familySet:   make(map[string]bool),
	}
	for _, f := range r.families {
		r.familySet[styletree.PrimaryFontFamily(f)] = true
	}
	return r
}

func (r *run) add(m Mismatch) {
	r.nextID++
	m.ID = r.nextID
	r.mismatches = append(r.mismatches, m)
}

func (r *run) checkElement(el *styletree.Element, loc string) {
	r.checkColors(el, loc)
	r.checkTypography(el, loc)
	r.checkSpacing(el, loc)
	r.checkBorder(el, loc)
}

func (r *run) checkColors(el *styletree.Element, loc string) {
	if len(r.colors) == 0 {
		return
	}

	r.checkColor(el, loc, "color", "color")
	r.checkColor(el, loc, "background-color", "background-color")

	width, ok := el.Length("border-width", "border-top-width")
	if ok && width > 0 {
		r.checkColor(el, loc, "border-color", "border-color", "border-top-color")
	}
}

func (r *run) checkColor(el *styletree.Element, loc, property string, names ...string) {
	raw, ok := el.Style(names...)
	if !ok {
		return
	}
	c, err := colordist.Parse(raw)
	if err != nil || c.Transparent() {
		return
	}

	m, mismatch := tokens.NearestColor(c, r.colors, r.opts.Tolerances.Color, r.opts.ColorMetric)
	if !mismatch {
		return
	}
	r.add(Mismatch{
		Category:  CategoryColor,
		Severity:  r.opts.classify(CategoryColor, m.Deviation),
		Property:  property,
		Expected:  m.Expected,
		Actual:    raw,
		Locator:   loc,
		Token:     m.Token,
		Deviation: m.Deviation,
	})
}

func (r *run) checkTypography(el *styletree.Element, loc string) {
	tol := r.opts.Tolerances

	if raw, ok := el.Style("font-size"); ok {
		if v, ok := styletree.ParseLength(raw); ok && v > 0 {
			r.checkLength(CategoryTypography, "font-size", raw, v, r.fontSizes, tol.FontSize, loc)
		}
	}

	if raw, ok := el.Style("font-weight"); ok {
		if v, ok := styletree.ParseFontWeight(raw); ok {
			if m, mismatch := tokens.NearestValue(v, r.fontWeights, tol.FontWeight); mismatch {
				// Weight changes within one face are rarely drastic.
				r.add(Mismatch{
					Category:  CategoryTypography,
					Severity:  SeverityMinor,
					Property:  "font-weight",
					Expected:  styletree.FormatNumber(m.Value),
					Actual:    raw,
					Locator:   loc,
					Token:     m.Token,
					Deviation: m.Deviation,
				})
			}
		}
	}

	if raw, ok := el.Style("line-height"); ok && !strings.EqualFold(raw, "normal") {
		if v, ok := styletree.ParseLength(raw); ok && v > 0 {
			r.checkLength(CategoryTypography, "line-height", raw, v, r.lineHeights, tol.LineHeight, loc)
		}
	}

	if raw, ok := el.Style("font-family"); ok && len(r.families) > 0 {
		if primary := styletree.PrimaryFontFamily(raw); primary != "" && !r.familySet[primary] {
			r.add(Mismatch{
				Category: CategoryTypography,
				Severity: SeverityMinor,
				Property: "font-family",
				Expected: strings.Join(r.families, ", "),
				Actual:   raw,
				Locator:  loc,
			})
		}
	}
}

func (r *run) checkSpacing(el *styletree.Element, loc string) {
	if len(r.spacing) == 0 {
		return
	}
	for _, p := range spacingProperties {
		raw, ok := el.Style(p)
		if !ok {
			continue
		}
		v, ok := styletree.ParseLength(raw)
		if !ok || v == 0 {
			continue
		}
		// Negative margins are matched on magnitude.
		r.checkLength(CategorySpacing, p, raw, math.Abs(v), r.spacing, r.opts.Tolerances.Spacing, loc)
	}
}

func (r *run) checkBorder(el *styletree.Element, loc string) {
	raw, ok := el.Style("border-radius", "border-top-left-radius")
	if !ok {
		return
	}
	v, ok := styletree.ParseLength(raw)
	if !ok || v == 0 {
		return
	}
	r.checkLength(CategoryBorder, "border-radius", raw, v, r.radii, r.opts.Tolerances.BorderRadius, loc)
}

func (r *run) checkLength(cat Category, property, raw string, v float64, candidates []tokens.Candidate, tolerance float64, loc string) {
	m, mismatch := tokens.NearestValue(v, candidates, tolerance)
	if !mismatch {
		return
	}
	r.add(Mismatch{
		Category:  cat,
		Severity:  r.opts.classify(cat, m.Deviation),
		Property:  property,
		Expected:  styletree.FormatPx(m.Value),
		Actual:    raw,
		Locator:   loc,
		Token:     m.Token,
		Deviation: m.Deviation,
	})
}
