package style

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/lucasb-eyer/go-colorful"
)

// Preset holds the initial value of every style parameter.
type Preset struct {
	Thresholds [domain.ZoomLevels]int
	Lock       bool
	Highlight  domain.RGBA
	Ramp       domain.RampParams
	Marker     domain.MarkerStyle
}

// DefaultPreset mirrors the map's stock styling.
func DefaultPreset() Preset {
	return Preset{
		Thresholds: domain.DefaultStreamOrderClipValues,
		Lock:       true,
		Highlight:  domain.DefaultHighlight,
		Ramp:       domain.DefaultRamp,
		Marker:     domain.DefaultMarker,
	}
}

// Validate checks every field against the parameter ranges. A degenerate
// ramp is accepted; it renders as no data.
func (p Preset) Validate() error {
	for _, v := range p.Thresholds {
		if err := domain.ValidateThreshold(v); err != nil {
			return err
		}
	}
	if err := p.Ramp.Validate(); err != nil && !errors.Is(err, domain.ErrDegenerateRange) {
		return err
	}
	if p.Marker.Radius < 0 || p.Marker.Radius > domain.MaxMarkerRadius {
		return domain.ErrRadiusOutOfRange
	}
	return nil
}

type presetFile struct {
	Lock       *bool       `toml:"lock"`
	Thresholds []int       `toml:"thresholds"`
	Highlight  *colorFile  `toml:"highlight"`
	Ramp       *rampFile   `toml:"range"`
	Marker     *markerFile `toml:"marker"`
}

type colorFile struct {
	Color string `toml:"color"`
	Alpha *int   `toml:"alpha"`
}

type rampFile struct {
	Min    *int  `toml:"min"`
	Max    *int  `toml:"max"`
	Invert *bool `toml:"invert"`
}

type markerFile struct {
	Color  string `toml:"color"`
	Alpha  *int   `toml:"alpha"`
	Radius *int   `toml:"radius"`
	Fill   *bool  `toml:"fill"`
}

// LoadPreset reads a TOML preset file. Keys left out keep their defaults.
//
//	lock = true
//	thresholds = [7, 7, 7, 6, 6, 6, 5, 5, 5, 4, 4, 4, 3, 3, 3, 2, 2, 2, 1, 1, 1]
//
//	[highlight]
//	color = "#ffffff"
//	alpha = 128
//
//	[range]
//	min = 0
//	max = 100
//	invert = true
//
//	[marker]
//	color = "#00ff00"
//	alpha = 255
//	radius = 4
//	fill = false
func LoadPreset(path string) (Preset, error) {
	var f presetFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Preset{}, fmt.Errorf("decode preset %s: %w", path, err)
	}
	return buildPreset(f, md)
}

// ParsePreset decodes a TOML preset from a string.
func ParsePreset(data string) (Preset, error) {
	var f presetFile
	md, err := toml.Decode(data, &f)
	if err != nil {
		return Preset{}, fmt.Errorf("decode preset: %w", err)
	}
	return buildPreset(f, md)
}

func buildPreset(f presetFile, md toml.MetaData) (Preset, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Preset{}, fmt.Errorf("unknown preset keys: %s", strings.Join(keys, ", "))
	}

	p := DefaultPreset()
	if f.Lock != nil {
		p.Lock = *f.Lock
	}
	if f.Thresholds != nil {
		if len(f.Thresholds) != domain.ZoomLevels {
			return Preset{}, fmt.Errorf("thresholds: want %d values, got %d", domain.ZoomLevels, len(f.Thresholds))
		}
		copy(p.Thresholds[:], f.Thresholds)
	}
	if f.Highlight != nil {
		c, err := applyColor(p.Highlight, f.Highlight.Color, f.Highlight.Alpha)
		if err != nil {
			return Preset{}, fmt.Errorf("highlight: %w", err)
		}
		p.Highlight = c
	}
	if f.Ramp != nil {
		if f.Ramp.Min != nil {
			p.Ramp.Min = *f.Ramp.Min
		}
		if f.Ramp.Max != nil {
			p.Ramp.Max = *f.Ramp.Max
		}
		if f.Ramp.Invert != nil {
			p.Ramp.Invert = *f.Ramp.Invert
		}
	}
	if f.Marker != nil {
		c, err := applyColor(p.Marker.Color, f.Marker.Color, f.Marker.Alpha)
		if err != nil {
			return Preset{}, fmt.Errorf("marker: %w", err)
		}
		p.Marker.Color = c
		if f.Marker.Radius != nil {
			p.Marker.Radius = *f.Marker.Radius
		}
		if f.Marker.Fill != nil {
			p.Marker.Fill = *f.Marker.Fill
		}
	}

	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func applyColor(base domain.RGBA, hex string, alpha *int) (domain.RGBA, error) {
	if hex != "" {
		c, err := colorful.Hex(hex)
		if err != nil {
			return base, fmt.Errorf("parse color %q: %w", hex, err)
		}
		base.R, base.G, base.B = c.RGB255()
	}
	if alpha != nil {
		if *alpha < 0 || *alpha > 255 {
			return base, domain.ErrChannelOutOfRange
		}
		base.A = uint8(*alpha)
	}
	return base, nil
}
