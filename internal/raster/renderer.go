package raster

import (
	"context"
	"image"
	"runtime"

	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/couchcryptid/flowline-styler/internal/style"
	"golang.org/x/sync/errgroup"
)

// Renderer applies the layer classifiers to whole tiles. Every pass reads
// its parameters from one snapshot, so concurrent style changes never tear
// a tile.
type Renderer struct {
	workers int
}

// NewRenderer returns a renderer using up to workers goroutines per tile.
// A non-positive value means GOMAXPROCS.
func NewRenderer(workers int) *Renderer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Renderer{workers: workers}
}

// Render dispatches to the pass for layer.
func (r *Renderer) Render(ctx context.Context, layer domain.Layer, src *image.NRGBA, snap style.Snapshot, zoom int) (*image.NRGBA, error) {
	switch layer {
	case domain.LayerFlowlines:
		return r.Clip(ctx, src, snap, zoom)
	case domain.LayerDeciles:
		return r.Decile(ctx, src, snap)
	case domain.LayerGages:
		dst, _, err := r.Gages(ctx, src, snap, zoom)
		return dst, err
	default:
		return nil, domain.ErrUnknownLayer
	}
}

// Clip highlights flowlines whose stream order passes the threshold for zoom.
func (r *Renderer) Clip(ctx context.Context, src *image.NRGBA, snap style.Snapshot, zoom int) (*image.NRGBA, error) {
	params := snap.Clip(zoom)
	return r.mapPixels(ctx, src, func(p domain.Pixel) domain.Pixel {
		return domain.ClassifyStreamOrder(p, params)
	})
}

// Decile colors each pixel's percentile rank on the jet ramp.
func (r *Renderer) Decile(ctx context.Context, src *image.NRGBA, snap style.Snapshot) (*image.NRGBA, error) {
	ramp := snap.Ramp
	return r.mapPixels(ctx, src, func(p domain.Pixel) domain.Pixel {
		return domain.ClassifyDecile(p, ramp)
	})
}

// Gages draws a marker over every drawn gage pixel that passes the threshold
// for zoom onto a transparent tile and returns the number of markers drawn.
// Markers overlap, so this pass runs on one goroutine.
func (r *Renderer) Gages(ctx context.Context, src *image.NRGBA, snap style.Snapshot, zoom int) (*image.NRGBA, int, error) {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	canvas := NewVectorCanvas(dst)
	threshold := snap.ThresholdFor(zoom)

	drawn := 0
	for y := 0; y < b.Dy(); y++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		row := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < b.Dx(); x++ {
			p := pixelAt(src.Pix, row+4*x)
			// Decoded PNGs keep color bytes under transparent pixels; nothing
			// was drawn there.
			if p.Alpha() == 0 {
				continue
			}
			if domain.MarkGage(p, x, y, threshold, snap.Marker, canvas) {
				drawn++
			}
		}
	}
	return dst, drawn, nil
}

func (r *Renderer) mapPixels(ctx context.Context, src *image.NRGBA, fn func(domain.Pixel) domain.Pixel) (*image.NRGBA, error) {
	b := src.Bounds()
	width, rows := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, width, rows))
	if rows == 0 || width == 0 {
		return dst, nil
	}

	bands := min(r.workers, rows)
	step := (rows + bands - 1) / bands

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for y0 := 0; y0 < rows; y0 += step {
		y1 := min(y0+step, rows)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				in := src.PixOffset(b.Min.X, b.Min.Y+y)
				out := dst.PixOffset(0, y)
				for x := 0; x < width; x++ {
					c := fn(pixelAt(src.Pix, in+4*x)).NRGBA()
					i := out + 4*x
					dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = c.R, c.G, c.B, c.A
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}

func pixelAt(pix []uint8, i int) domain.Pixel {
	return domain.Pack(pix[i], pix[i+1], pix[i+2], pix[i+3])
}
