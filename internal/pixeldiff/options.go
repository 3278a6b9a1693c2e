package pixeldiff

import (
	"image/color"
	"math"
)

// Options configures an Engine.
type Options struct {
	// Threshold is the matching sensitivity, 0 (exact) to 1 (lenient).
	Threshold float64
	// IncludeAA counts anti-aliased pixels as differences.
	IncludeAA bool
	// Alpha blends unchanged pixels of the first image into the diff output.
	Alpha float64
	// DiffColor marks differing pixels.
	DiffColor color.NRGBA
	// AAColor marks anti-aliased pixels that were not counted.
	AAColor color.NRGBA
	// MinRegionPixels drops connected regions with fewer pixels.
	MinRegionPixels int
	// MergeDistance merges regions whose boxes are this close in both axes.
	MergeDistance int
	// MaxFillStack bounds the flood fill stack. A fill that reaches it stops
	// early and its region covers only the pixels visited so far.
	MaxFillStack int
}

// MinFillStack is the smallest usable flood fill stack: room for one pixel's
// four neighbors.
const MinFillStack = 4

// DefaultOptions returns the stock pixel diff settings.
func DefaultOptions() Options {
	return Options{
		Threshold:       0.1,
		IncludeAA:       false,
		Alpha:           0.1,
		DiffColor:       color.NRGBA{R: 255, G: 0, B: 0, A: 255},
		AAColor:         color.NRGBA{R: 255, G: 255, B: 0, A: 255},
		MinRegionPixels: 10,
		MergeDistance:   20,
		MaxFillStack:    100000,
	}
}

func (o Options) sanitized() Options {
	def := DefaultOptions()
	o.Threshold = math.Max(0, math.Min(1, o.Threshold))
	o.Alpha = math.Max(0, math.Min(1, o.Alpha))
	if o.DiffColor == (color.NRGBA{}) {
		o.DiffColor = def.DiffColor
	}
	if o.AAColor == (color.NRGBA{}) {
		o.AAColor = def.AAColor
	}
	if o.MinRegionPixels < 0 {
		o.MinRegionPixels = 0
	}
	if o.MergeDistance < 0 {
		o.MergeDistance = 0
	}
	if o.MaxFillStack <= 0 {
		o.MaxFillStack = def.MaxFillStack
	} else if o.MaxFillStack < MinFillStack {
		o.MaxFillStack = MinFillStack
	}
	return o
}
