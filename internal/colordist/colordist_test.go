package colordist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#ff0000", RGBA{255, 0, 0, 1}},
		{"#F00", RGBA{255, 0, 0, 1}},
		{"#00FF00", RGBA{0, 255, 0, 1}},
		{"#0000ff80", RGBA{0, 0, 255, 128.0 / 255}},
		{"rgb(255, 0, 0)", RGBA{255, 0, 0, 1}},
		{"rgb(255,0,0)", RGBA{255, 0, 0, 1}},
		{"rgba(10, 20, 30, 0.5)", RGBA{10, 20, 30, 0.5}},
		{"rgb(10 20 30 / 50%)", RGBA{10, 20, 30, 0.5}},
		{"rgb(100%, 0%, 0%)", RGBA{255, 0, 0, 1}},
		{"hsl(120, 100%, 50%)", RGBA{0, 255, 0, 1}},
		{"  White ", RGBA{255, 255, 255, 1}},
		{"transparent", RGBA{0, 0, 0, 0}},
		{"rgba(0, 0, 0, 0)", RGBA{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want.R, got.R)
			assert.Equal(t, tt.want.G, got.G)
			assert.Equal(t, tt.want.B, got.B)
			assert.InDelta(t, tt.want.A, got.A, 0.001)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "rgb(1,2)", "var(--brand)", "currentcolor", "rgb(a,b,c)",
		"rgba(0, 0, 0, nan)", "rgb(inf, 0, 0)", "rgb(NaN%, 0, 0)", "hsl(nan, 50%, 50%)", "hsla(0, 50%, 50%, Infinity)"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidColor, in)
	}
}

func TestDistanceIdentical(t *testing.T) {
	for _, s := range []string{"#000000", "#ffffff", "#3366cc", "rgba(12, 200, 7, 0.4)"} {
		c := MustParse(s)
		assert.Equal(t, 0.0, Distance(c, c), s)
		assert.Equal(t, 0.0, DistanceWith(CIEDE2000, c, c), s)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"#ff0000", "#00ff00"},
		{"#123456", "#654321"},
		{"rgb(250, 250, 250)", "white"},
		{"rgba(0, 0, 255, 0.5)", "#8080ff"},
	}
	for _, p := range pairs {
		a, b := MustParse(p[0]), MustParse(p[1])
		assert.Equal(t, Distance(a, b), Distance(b, a), "%s vs %s", p[0], p[1])
	}
}

func TestDistanceScale(t *testing.T) {
	// Black to white spans the full lightness axis.
	assert.InDelta(t, 100, Distance(MustParse("black"), MustParse("white")), 0.5)

	redGreen := Distance(MustParse("rgb(255,0,0)"), MustParse("#00FF00"))
	assert.Greater(t, redGreen, 100.0)

	near := Distance(MustParse("#3366cc"), MustParse("#3367cc"))
	assert.Less(t, near, 1.0)
}

func TestCompositeOverWhite(t *testing.T) {
	c := RGBA{R: 0, G: 0, B: 0, A: 0.5}.Composite(white)
	assert.Equal(t, RGBA{R: 128, G: 128, B: 128, A: 1}, c)

	// A fully transparent color is indistinguishable from the backdrop.
	assert.Equal(t, 0.0, Distance(MustParse("transparent"), MustParse("white")))
}

func TestHexRoundTrip(t *testing.T) {
	assert.Equal(t, "#3366cc", MustParse("#3366CC").Hex())
	assert.Equal(t, "rgb(51, 102, 204)", MustParse("#3366cc").String())
	assert.Equal(t, "rgba(0, 0, 0, 0.5)", RGBA{A: 0.5}.String())
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, CIE76, m)

	m, err = ParseMetric("CIEDE2000")
	require.NoError(t, err)
	assert.Equal(t, CIEDE2000, m)

	_, err = ParseMetric("cmc")
	assert.Error(t, err)
}
