package domain

import "math"

const (
	MinRampBound = 0
	MaxRampBound = 100

	// BelowRange and AboveRange are returned for values outside [Min, Max].
	BelowRange Pixel = 0xFFFF0000
	AboveRange Pixel = 0xFF0000FF
)

// RampParams configures the percentile color ramp. Min may exceed Max; the
// ramp is then inverted or empty and no correction is applied.
type RampParams struct {
	Min    int  `json:"min" toml:"min"`
	Max    int  `json:"max" toml:"max"`
	Invert bool `json:"invert" toml:"invert"`
}

// DefaultRamp spans the whole percentile range, high percentiles first.
var DefaultRamp = RampParams{Min: 0, Max: 100, Invert: true}

// Validate reports bounds outside [0,100] and the degenerate Min == Max case.
func (r RampParams) Validate() error {
	if r.Min < MinRampBound || r.Min > MaxRampBound || r.Max < MinRampBound || r.Max > MaxRampBound {
		return ErrRangeOutOfBounds
	}
	if r.Min == r.Max {
		return ErrDegenerateRange
	}
	return nil
}

// ClassifyDecile maps an encoded percentile through the jet ramp.
func ClassifyDecile(p Pixel, r RampParams) Pixel {
	if p.Alpha() == 0 {
		return Transparent
	}
	if p.IsNoData() {
		return Transparent
	}

	value := int64(p.Value())
	if value < int64(r.Min) {
		return BelowRange
	}
	if value > int64(r.Max) {
		return AboveRange
	}
	if r.Min == r.Max {
		return Transparent
	}

	coef := float64(value-int64(r.Min)) / float64(r.Max-r.Min) * 4
	if r.Invert {
		coef = 4 - coef
	}
	red, green, blue := Jet(coef)
	return 0xFF000000 | Pixel(toByte(red))<<16 | Pixel(toByte(green))<<8 | Pixel(toByte(blue))
}

// Jet evaluates the four-segment jet ramp at coef in [0,4]. Each channel is a
// trapezoid clamped to [0,1].
func Jet(coef float64) (r, g, b float64) {
	r = clamp01(math.Min(coef-1.5, -coef+4.5))
	g = clamp01(math.Min(coef-0.5, -coef+3.5))
	b = clamp01(math.Min(coef+0.5, -coef+2.5))
	return r, g, b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
