package domain

import (
	"image/color"
	"strconv"
)

const MaxMarkerRadius = 10

// MarkerStyle describes the circle drawn at each visible gage.
type MarkerStyle struct {
	Color  RGBA `json:"color" toml:"color"`
	Radius int  `json:"radius" toml:"radius"`
	Fill   bool `json:"fill" toml:"fill"`
}

// DefaultMarker is an opaque green 4px ring.
var DefaultMarker = MarkerStyle{
	Color:  RGBA{R: 0, G: 255, B: 0, A: 255},
	Radius: 4,
}

// CSS renders the marker color as rgba(R,G,B,A/255).
func (s MarkerStyle) CSS() string {
	alpha := strconv.FormatFloat(float64(s.Color.A)/255, 'f', -1, 64)
	return "rgba(" +
		strconv.Itoa(int(s.Color.R)) + "," +
		strconv.Itoa(int(s.Color.G)) + "," +
		strconv.Itoa(int(s.Color.B)) + "," +
		alpha + ")"
}

// NRGBA returns the marker color for drawing.
func (s MarkerStyle) NRGBA() color.NRGBA {
	return color.NRGBA{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: s.Color.A}
}

// Canvas receives marker draw calls.
type Canvas interface {
	Circle(x, y int, radius float64, c color.NRGBA, fill bool)
}

// MarkGage draws a marker at (x, y) when the gage's stream order passes the
// threshold. It reports whether a marker was drawn. Transparent pixels are
// not skipped; their value is expected to be zero.
func MarkGage(p Pixel, x, y int, threshold int, s MarkerStyle, c Canvas) bool {
	if !passesThreshold(p.Value(), threshold) || p.IsNoData() {
		return false
	}
	c.Circle(x, y, float64(s.Radius), s.NRGBA(), s.Fill)
	return true
}
