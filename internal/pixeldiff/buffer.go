package pixeldiff

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var (
	opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	lightGray   = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
)

// canvas allocates a w×h buffer filled with bg.
func canvas(w, h int, bg color.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	return dst
}

// paste copies src into dst with its top-left corner at at.
func paste(dst *image.NRGBA, src image.Image, at image.Point, op draw.Op) {
	b := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(b.Size())}
	draw.Draw(dst, r, src, b.Min, op)
}

// normalize returns a copy of img on a w×h opaque white canvas, anchored at
// the top-left corner. The source is never scaled.
func normalize(img image.Image, w, h int) *image.NRGBA {
	dst := canvas(w, h, opaqueWhite)
	paste(dst, img, image.Point{}, draw.Src)
	return dst
}

// commonSize returns the max width and max height of a and b.
func commonSize(a, b image.Image) (int, int) {
	ab, bb := a.Bounds(), b.Bounds()
	return max(ab.Dx(), bb.Dx()), max(ab.Dy(), bb.Dy())
}

// Layout of side-by-side composites.
const (
	sideBySideGap    = 20
	sideBySideMargin = 20
)

// SideBySide lays expected, actual and diff out left to right on a light
// background with fixed gaps between them.
func SideBySide(expected, actual, diff image.Image) *image.NRGBA {
	imgs := []image.Image{expected, actual, diff}

	width, height := 2*sideBySideMargin, 0
	n := 0
	for _, img := range imgs {
		if img == nil {
			continue
		}
		b := img.Bounds()
		if n > 0 {
			width += sideBySideGap
		}
		width += b.Dx()
		height = max(height, b.Dy())
		n++
	}
	height += 2 * sideBySideMargin

	dst := canvas(width, height, lightGray)
	x := sideBySideMargin
	for _, img := range imgs {
		if img == nil {
			continue
		}
		paste(dst, img, image.Pt(x, sideBySideMargin), draw.Over)
		x += img.Bounds().Dx() + sideBySideGap
	}
	return dst
}
