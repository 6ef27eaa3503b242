package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// VectorCanvas draws anti-aliased markers onto an NRGBA tile.
type VectorCanvas struct {
	dst *image.NRGBA
}

// NewVectorCanvas returns a canvas drawing onto dst.
func NewVectorCanvas(dst *image.NRGBA) *VectorCanvas {
	return &VectorCanvas{dst: dst}
}

// Circle draws a circle centred on pixel (x, y). Strokes are 1px wide and
// centred on the circle path. A non-positive radius draws nothing.
func (c *VectorCanvas) Circle(x, y int, radius float64, col color.NRGBA, fill bool) {
	if radius <= 0 || col.A == 0 {
		return
	}
	outer := radius
	if !fill {
		outer = radius + 0.5
	}

	pad := int(math.Ceil(outer)) + 1
	box := image.Rect(x-pad, y-pad, x+pad+1, y+pad+1)
	clipped := box.Intersect(c.dst.Bounds())
	if clipped.Empty() {
		return
	}

	w, h := box.Dx(), box.Dy()
	z := vector.NewRasterizer(w, h)
	cx := float32(x-box.Min.X) + 0.5
	cy := float32(y-box.Min.Y) + 0.5
	addCircle(z, cx, cy, float32(outer), false)
	if !fill && radius > 0.5 {
		addCircle(z, cx, cy, float32(radius-0.5), true)
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(c.dst, clipped, image.NewUniform(col), image.Point{}, mask, clipped.Min.Sub(box.Min), draw.Over)
}

// addCircle appends a closed circular subpath. Reversed subpaths cancel
// coverage, which punches the hole of a stroke.
func addCircle(z *vector.Rasterizer, cx, cy, r float32, reverse bool) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	if reverse {
		z.CubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
		z.CubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
		z.CubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
		z.CubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	} else {
		z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	}
	z.ClosePath()
}
