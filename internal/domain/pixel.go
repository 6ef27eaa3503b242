package domain

import "image/color"

// Pixel is a packed 32-bit pixel: alpha in the top byte, then blue, green, red.
type Pixel uint32

const (
	// ValueMask selects the 24-bit encoded value of a data pixel.
	ValueMask Pixel = 0x00FFFFFF

	// NoData is the encoded value reserved for "no data".
	NoData uint32 = 0x00FFFFFF

	// Transparent is the fully transparent output pixel.
	Transparent Pixel = 0
)

// Pack builds a pixel from individual channels.
func Pack(r, g, b, a uint8) Pixel {
	return Pixel(a)<<24 | Pixel(b)<<16 | Pixel(g)<<8 | Pixel(r)
}

// FromNRGBA packs a non-premultiplied color.
func FromNRGBA(c color.NRGBA) Pixel {
	return Pack(c.R, c.G, c.B, c.A)
}

// Alpha returns the alpha byte.
func (p Pixel) Alpha() uint8 { return uint8(p >> 24) }

// Value returns the 24-bit encoded value.
func (p Pixel) Value() uint32 { return uint32(p & ValueMask) }

// NRGBA unpacks the pixel into its channels.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(p),
		G: uint8(p >> 8),
		B: uint8(p >> 16),
		A: uint8(p >> 24),
	}
}

// IsNoData reports whether the pixel carries the no-data sentinel.
func (p Pixel) IsNoData() bool { return p.Value() >= NoData }

// Encode returns an opaque data pixel carrying v. Values wider than 24 bits
// are truncated.
func Encode(v uint32) Pixel {
	return 0xFF000000 | Pixel(v)&ValueMask
}
