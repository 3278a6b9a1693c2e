package pixeldiff

import "fmt"

// Region is the bounding box of a group of differing pixels.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Pixels int `json:"pixels"`
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d+%d+%d (%d px)", r.Width, r.Height, r.X, r.Y, r.Pixels)
}

// gap returns the empty distance between two boxes along each axis, zero
// when they touch or overlap.
func (r Region) gap(o Region) (int, int) {
	dx := max(o.X-(r.X+r.Width), r.X-(o.X+o.Width), 0)
	dy := max(o.Y-(r.Y+r.Height), r.Y-(o.Y+o.Height), 0)
	return dx, dy
}

func (r Region) union(o Region) Region {
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1 := max(r.X+r.Width, o.X+o.Width)
	y1 := max(r.Y+r.Height, o.Y+o.Height)
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0, Pixels: r.Pixels + o.Pixels}
}

// extractRegions groups the set cells of a w×h mask into 4-connected
// components using an explicit stack. Components smaller than minPixels are
// dropped. The seed is always counted. A fill whose stack grows to maxStack
// stops and keeps the box it has covered so far; the pixels still queued stay marked visited and are
// not revisited by later fills.
func extractRegions(mask []bool, w, h, minPixels, maxStack int) []Region {
	visited := make([]bool, len(mask))
	stack := make([]int, 0, 256)
	var regions []Region

	for start, set := range mask {
		if !set || visited[start] {
			continue
		}

		visited[start] = true
		stack = append(stack[:0], start)
		minX, minY := w, h
		maxX, maxY := -1, -1
		count := 0

		push := func(x, y int) {
			if x < 0 || y < 0 || x >= w || y >= h {
				return
			}
			i := y*w + x
			if mask[i] && !visited[i] {
				visited[i] = true
				stack = append(stack, i)
			}
		}

		for len(stack) > 0 && (count == 0 || len(stack) < maxStack) {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w

			count++
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			push(x+1, y)
			push(x-1, y)
			push(x, y+1)
			push(x, y-1)
		}

		if count == 0 || count < minPixels {
			continue
		}
		regions = append(regions, Region{
			X:      minX,
			Y:      minY,
			Width:  maxX - minX + 1,
			Height: maxY - minY + 1,
			Pixels: count,
		})
	}
	return regions
}

// MergeRegions repeatedly merges any two regions whose boxes are within
// distance of each other on both axes, until no such pair remains. The
// result is a fixed point: merging it again returns it unchanged.
func MergeRegions(regions []Region, distance int) []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	for {
		merged := false
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); {
				dx, dy := out[i].gap(out[j])
				if dx <= distance && dy <= distance {
					out[i] = out[i].union(out[j])
					out = append(out[:j], out[j+1:]...)
					merged = true
					continue
				}
				j++
			}
		}
		if !merged {
			return out
		}
	}
}
