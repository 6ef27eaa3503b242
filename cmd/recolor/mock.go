package main

import (
	"fmt"
	"image"
	"math/rand/v2"
	"slices"

	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/urfave/cli"
)

func runMock(c *cli.Context) error {
	if c.NArg() != 1 {
		_ = cli.ShowCommandHelp(c, c.Command.Name)
		return fmt.Errorf("expected <out.png>")
	}
	layer, err := domain.ParseLayer(c.String("layer"))
	if err != nil {
		return err
	}
	size, features := c.Int("size"), c.Int("features")
	if size <= 0 || features < 0 {
		return fmt.Errorf("size must be positive and features non-negative")
	}
	img := mockTile(layer, size, features, uint64(c.Int64("seed")))
	return writeTile(c.Args().Get(0), img)
}

type mockLine struct {
	x0, y0, x1, y1 int
	value          uint32
}

// mockTile builds a data tile for layer. Flowline and decile tiles carry
// straight lines whose pixels encode a stream order or a percentile; one line
// in every eight carries the no-data value. Gage tiles carry isolated
// stream-order points. The same seed always yields the same tile.
func mockTile(layer domain.Layer, size, features int, seed uint64) *image.NRGBA {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	if layer == domain.LayerGages {
		for range features {
			x, y := rng.IntN(size), rng.IntN(size)
			setValue(img, x, y, domain.Encode(uint32(1+rng.IntN(domain.MaxStreamOrder))))
		}
		return img
	}

	lines := make([]mockLine, features)
	for i := range lines {
		l := mockLine{x0: rng.IntN(size), y0: rng.IntN(size), x1: rng.IntN(size), y1: rng.IntN(size)}
		switch {
		case i%8 == 7:
			l.value = domain.NoData
		case layer == domain.LayerDeciles:
			l.value = uint32(rng.IntN(domain.MaxRampBound + 1))
		default:
			l.value = uint32(1 + rng.IntN(domain.MaxStreamOrder))
		}
		lines[i] = l
	}
	// Larger values draw last so major rivers stay on top.
	slices.SortStableFunc(lines, func(a, b mockLine) int { return int(a.value) - int(b.value) })
	for _, l := range lines {
		drawLine(img, l)
	}
	return img
}

// drawLine rasterizes l with Bresenham's algorithm.
func drawLine(img *image.NRGBA, l mockLine) {
	p := domain.Encode(l.value)
	dx, dy := abs(l.x1-l.x0), -abs(l.y1-l.y0)
	sx, sy := sign(l.x1-l.x0), sign(l.y1-l.y0)
	x, y, e := l.x0, l.y0, dx+dy
	for {
		setValue(img, x, y, p)
		if x == l.x1 && y == l.y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func setValue(img *image.NRGBA, x, y int, p domain.Pixel) {
	c := p.NRGBA()
	i := img.PixOffset(x, y)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
