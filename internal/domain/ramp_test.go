package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDecile(t *testing.T) {
	linear := RampParams{Min: 0, Max: 100}

	tests := []struct {
		name   string
		pixel  Pixel
		params RampParams
		want   Pixel
	}{
		{"transparent input", Pack(50, 0, 0, 0), linear, Transparent},
		{"transparent input below range", Pack(0, 0, 0, 0), RampParams{Min: 10, Max: 90}, Transparent},
		{"no data", 0xFFFFFFFF, linear, Transparent},
		{"below min", Pack(5, 0, 0, 0xFF), RampParams{Min: 10, Max: 90}, BelowRange},
		{"above max", Pack(95, 0, 0, 0xFF), RampParams{Min: 10, Max: 90}, AboveRange},
		{"midpoint", Pack(50, 0, 0, 0xFF), linear, 0xFF80FF80},
		{"at min", Pack(0, 0, 0, 0xFF), linear, 0xFF000080},
		{"at min inverted", Pack(0, 0, 0, 0xFF), RampParams{Min: 0, Max: 100, Invert: true}, 0xFF800000},
		{"at max", Pack(100, 0, 0, 0xFF), linear, 0xFF800000},
		{"at max inverted", Pack(100, 0, 0, 0xFF), RampParams{Min: 0, Max: 100, Invert: true}, 0xFF000080},
		{"quarter", Pack(25, 0, 0, 0xFF), linear, 0xFF0080FF},
		{"degenerate range", Pack(40, 0, 0, 0xFF), RampParams{Min: 40, Max: 40}, Transparent},
		{"degenerate range below", Pack(39, 0, 0, 0xFF), RampParams{Min: 40, Max: 40}, BelowRange},
		{"inverted bounds below min", Pack(50, 0, 0, 0xFF), RampParams{Min: 60, Max: 40}, BelowRange},
		{"inverted bounds above max", Pack(70, 0, 0, 0xFF), RampParams{Min: 60, Max: 40}, AboveRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDecile(tt.pixel, tt.params)
			assert.Equalf(t, tt.want, got, "got %#08x want %#08x", uint32(got), uint32(tt.want))
		})
	}
}

func TestClassifyDecile_Idempotent(t *testing.T) {
	p := Pack(37, 0, 0, 0xFF)
	assert.Equal(t, ClassifyDecile(p, DefaultRamp), ClassifyDecile(p, DefaultRamp))
}

func TestJet(t *testing.T) {
	r, g, b := Jet(2)
	assert.InDelta(t, 0.5, r, 1e-9)
	assert.InDelta(t, 1.0, g, 1e-9)
	assert.InDelta(t, 0.5, b, 1e-9)

	r, g, b = Jet(0)
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.InDelta(t, 0.5, b, 1e-9)

	r, g, b = Jet(4)
	assert.InDelta(t, 0.5, r, 1e-9)
	assert.Zero(t, g)
	assert.Zero(t, b)
}

func TestRampParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultRamp.Validate())
	assert.NoError(t, RampParams{Min: 80, Max: 20}.Validate())
	assert.ErrorIs(t, RampParams{Min: 50, Max: 50}.Validate(), ErrDegenerateRange)
	assert.ErrorIs(t, RampParams{Min: -1, Max: 50}.Validate(), ErrRangeOutOfBounds)
	assert.ErrorIs(t, RampParams{Min: 0, Max: 101}.Validate(), ErrRangeOutOfBounds)
}
