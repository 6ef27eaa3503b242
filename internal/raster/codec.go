// Package raster runs the per-pixel classifiers over whole data tiles.
package raster

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp" // register webp decoder
)

// Decode reads a data tile and normalizes it to NRGBA with a zero origin.
// The color bytes under fully transparent pixels are preserved for PNG input.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode tile: %w", err)
	}
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n, nil
	}
	return imaging.Clone(img), nil
}

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode tile: %w", err)
	}
	return nil
}
