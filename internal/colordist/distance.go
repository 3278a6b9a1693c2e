package colordist

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Metric selects the Delta-E formula.
type Metric string

const (
	// CIE76 is the euclidean distance in CIELAB.
	CIE76 Metric = "cie76"
	// CIEDE2000 is the CIEDE2000 color difference.
	CIEDE2000 Metric = "ciede2000"
)

// ParseMetric maps a config value to a Metric. Empty selects CIE76.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case "", CIE76:
		return CIE76, nil
	case CIEDE2000:
		return CIEDE2000, nil
	}
	return "", fmt.Errorf("unknown color metric %q", s)
}

// Distance returns the CIE76 Delta-E between a and b after compositing both
// over white. The result is on the usual 0-100 lightness scale.
func Distance(a, b RGBA) float64 {
	return DistanceWith(CIE76, a, b)
}

// DistanceWith returns the Delta-E between a and b using metric m.
func DistanceWith(m Metric, a, b RGBA) float64 {
	ca := a.Composite(white)
	cb := b.Composite(white)
	if ca == cb {
		return 0
	}

	la, lb := toColorful(ca), toColorful(cb)
	// go-colorful works with L in [0,1]; scale back to conventional units.
	switch m {
	case CIEDE2000:
		return la.DistanceCIEDE2000(lb) * 100
	default:
		return la.DistanceCIE76(lb) * 100
	}
}

// DistanceString parses both values and returns their distance.
func DistanceString(a, b string) (float64, error) {
	ca, err := Parse(a)
	if err != nil {
		return 0, err
	}
	cb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return Distance(ca, cb), nil
}

func toColorful(c RGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}
