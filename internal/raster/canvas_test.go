package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

var green = color.NRGBA{G: 255, A: 255}

func TestVectorCanvas_Fill(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	NewVectorCanvas(dst).Circle(10, 10, 4, green, true)

	assert.Equal(t, green, dst.NRGBAAt(10, 10))
	assert.Equal(t, green, dst.NRGBAAt(12, 10))
	assert.Zero(t, dst.NRGBAAt(15, 10).A)
	assert.Zero(t, dst.NRGBAAt(0, 0).A)
}

func TestVectorCanvas_Stroke(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	NewVectorCanvas(dst).Circle(10, 10, 4, green, false)

	assert.Zero(t, dst.NRGBAAt(10, 10).A, "stroke leaves the centre empty")
	assert.Zero(t, dst.NRGBAAt(11, 10).A)
	for _, p := range []image.Point{{14, 10}, {6, 10}, {10, 14}, {10, 6}} {
		c := dst.NRGBAAt(p.X, p.Y)
		assert.Greater(t, c.A, uint8(200), "ring pixel %v", p)
		assert.Equal(t, uint8(255), c.G)
	}
	assert.Zero(t, dst.NRGBAAt(16, 10).A)
}

func TestVectorCanvas_ClipsAtEdges(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	c := NewVectorCanvas(dst)

	assert.NotPanics(t, func() {
		c.Circle(0, 0, 10, green, true)
		c.Circle(7, 7, 3, green, false)
		c.Circle(-30, -30, 5, green, true)
	})
	assert.Equal(t, green, dst.NRGBAAt(0, 0))
}

func TestVectorCanvas_NothingToDraw(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	c := NewVectorCanvas(dst)
	c.Circle(4, 4, 0, green, true)
	c.Circle(4, 4, -1, green, false)
	c.Circle(4, 4, 3, color.NRGBA{G: 255}, true)

	for _, v := range dst.Pix {
		assert.Zero(t, v)
	}
}
