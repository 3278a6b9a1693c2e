package pixeldiff

import (
	"image"
	"image/color"
	"math"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of one pixel comparison.
type Result struct {
	Width             int      `json:"width"`
	Height            int      `json:"height"`
	TotalPixels       int      `json:"totalPixels"`
	MismatchedPixels  int      `json:"mismatchedPixels"`
	AntiAliasedPixels int      `json:"antiAliasedPixels"`
	MatchPercentage   float64  `json:"matchPercentage"`
	Regions           []Region `json:"regions"`

	// Expected and Actual are the normalized inputs, Diff the rendered
	// difference image. All three share the same dimensions.
	Expected *image.NRGBA `json:"-"`
	Actual   *image.NRGBA `json:"-"`
	Diff     *image.NRGBA `json:"-"`
}

// Identical reports whether no pixel differed.
func (r *Result) Identical() bool {
	return r.MismatchedPixels == 0
}

// SideBySide renders expected, actual and diff next to each other.
func (r *Result) SideBySide() *image.NRGBA {
	return SideBySide(r.Expected, r.Actual, r.Diff)
}

// Engine compares screenshots. It holds no per-comparison state and is
// safe for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine creates an engine. Out-of-range options are clamped and zero
// colors or stack limits fall back to their defaults.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts.sanitized()}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Compare decodes both inputs and compares them. A decode failure is
// returned as a *DecodeError.
func (e *Engine) Compare(expected, actual []byte) (*Result, error) {
	a, err := Decode(expected)
	if err != nil {
		return nil, &DecodeError{Input: "expected image", Err: err}
	}
	b, err := Decode(actual)
	if err != nil {
		return nil, &DecodeError{Input: "actual image", Err: err}
	}
	return e.CompareImages(a, b), nil
}

// CompareBase64 is Compare for base64 or data URI inputs.
func (e *Engine) CompareBase64(expected, actual string) (*Result, error) {
	a, err := DecodeString(expected)
	if err != nil {
		return nil, &DecodeError{Input: "expected image", Err: err}
	}
	b, err := DecodeString(actual)
	if err != nil {
		return nil, &DecodeError{Input: "actual image", Err: err}
	}
	return e.CompareImages(a, b), nil
}

// CompareImages compares two decoded images. Images of different sizes are
// placed on a shared white canvas of the larger dimensions first.
func (e *Engine) CompareImages(expected, actual image.Image) *Result {
	w, h := commonSize(expected, actual)
	a := normalize(expected, w, h)
	b := normalize(actual, w, h)

	res := &Result{
		Width:       w,
		Height:      h,
		TotalPixels: w * h,
		Expected:    a,
		Actual:      b,
		Regions:     []Region{},
	}
	if res.TotalPixels == 0 {
		res.MatchPercentage = 100
		res.Diff = image.NewNRGBA(image.Rect(0, 0, w, h))
		return res
	}

	mask := make([]bool, w*h)
	res.Diff = e.render(a.Pix, b.Pix, w, h, mask, res)

	matched := float64(res.TotalPixels-res.MismatchedPixels) / float64(res.TotalPixels) * 100
	res.MatchPercentage = math.Round(matched*100) / 100

	raw := extractRegions(mask, w, h, e.opts.MinRegionPixels, e.opts.MaxFillStack)
	res.Regions = MergeRegions(raw, e.opts.MergeDistance)

	log.Debug().
		Int("width", w).
		Int("height", h).
		Int("mismatched", res.MismatchedPixels).
		Int("antialiased", res.AntiAliasedPixels).
		Int("regions", len(res.Regions)).
		Msg("pixel comparison complete")

	return res
}

// render walks every pixel, writes the diff image, marks differing pixels
// in mask and updates the counters on res.
func (e *Engine) render(a, b []uint8, w, h int, mask []bool, res *Result) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	maxDelta := maxYIQDelta * e.opts.Threshold * e.opts.Threshold

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos := (y*w + x) * 4
			delta := colorDelta(a, b, pos, pos, false)

			if math.Abs(delta) <= maxDelta {
				drawGray(out.Pix, pos, a, e.opts.Alpha)
				continue
			}

			if !e.opts.IncludeAA && (antialiased(a, x, y, w, h, b) || antialiased(b, x, y, w, h, a)) {
				res.AntiAliasedPixels++
				drawPixel(out.Pix, pos, e.opts.AAColor)
				continue
			}

			res.MismatchedPixels++
			mask[y*w+x] = true
			drawPixel(out.Pix, pos, e.opts.DiffColor)
		}
	}
	return out
}

func drawPixel(pix []uint8, pos int, c color.NRGBA) {
	pix[pos], pix[pos+1], pix[pos+2], pix[pos+3] = c.R, c.G, c.B, c.A
}

// drawGray writes a faded grayscale copy of the source pixel.
func drawGray(pix []uint8, pos int, src []uint8, alpha float64) {
	y := rgb2y(float64(src[pos]), float64(src[pos+1]), float64(src[pos+2]))
	v := blend(y, alpha*float64(src[pos+3])/255)
	g := uint8(math.Max(0, math.Min(255, math.Round(v))))
	pix[pos], pix[pos+1], pix[pos+2], pix[pos+3] = g, g, g, 255
}
