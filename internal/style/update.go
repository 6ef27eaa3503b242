package style

import "github.com/couchcryptid/flowline-styler/internal/domain"

// RangeUpdate carries optional ramp fields. Nil fields are left unchanged.
type RangeUpdate struct {
	Min    *int  `json:"min,omitempty"`
	Max    *int  `json:"max,omitempty"`
	Invert *bool `json:"invert,omitempty"`
}

// ColorUpdate carries optional color channels in 0-255.
type ColorUpdate struct {
	R *int `json:"r,omitempty"`
	G *int `json:"g,omitempty"`
	B *int `json:"b,omitempty"`
	A *int `json:"a,omitempty"`
}

// MarkerUpdate carries optional marker fields.
type MarkerUpdate struct {
	ColorUpdate
	Radius *int  `json:"radius,omitempty"`
	Fill   *bool `json:"fill,omitempty"`
}

func (u ColorUpdate) apply(c domain.RGBA) (domain.RGBA, error) {
	for _, f := range []struct {
		ch domain.Channel
		v  *int
	}{
		{domain.ChannelRed, u.R},
		{domain.ChannelGreen, u.G},
		{domain.ChannelBlue, u.B},
		{domain.ChannelAlpha, u.A},
	} {
		if f.v == nil {
			continue
		}
		b, err := channelByte(*f.v)
		if err != nil {
			return c, err
		}
		if c, err = c.With(f.ch, b); err != nil {
			return c, err
		}
	}
	return c, nil
}

// UpdateRange applies every set field as one mutation. Nothing changes when
// any field is invalid.
func (s *Store) UpdateRange(u RangeUpdate) error {
	for _, v := range []*int{u.Min, u.Max} {
		if v == nil {
			continue
		}
		if err := validateBound(*v); err != nil {
			return err
		}
	}
	return s.mutate(domain.LayerDeciles, "range", func() (bool, error) {
		next := s.ramp
		if u.Min != nil {
			next.Min = *u.Min
		}
		if u.Max != nil {
			next.Max = *u.Max
		}
		if u.Invert != nil {
			next.Invert = *u.Invert
		}
		if next == s.ramp {
			return false, nil
		}
		s.ramp = next
		return true, nil
	})
}

// UpdateHighlight applies every set channel of the highlight color as one mutation.
func (s *Store) UpdateHighlight(u ColorUpdate) error {
	return s.mutate(domain.LayerFlowlines, "highlight", func() (bool, error) {
		next, err := u.apply(s.highlight)
		if err != nil || next == s.highlight {
			return false, err
		}
		s.highlight = next
		return true, nil
	})
}

// UpdateMarker applies every set marker field as one mutation.
func (s *Store) UpdateMarker(u MarkerUpdate) error {
	if u.Radius != nil && (*u.Radius < 0 || *u.Radius > domain.MaxMarkerRadius) {
		return domain.ErrRadiusOutOfRange
	}
	return s.mutate(domain.LayerGages, "marker", func() (bool, error) {
		next := s.marker
		color, err := u.apply(next.Color)
		if err != nil {
			return false, err
		}
		next.Color = color
		if u.Radius != nil {
			next.Radius = *u.Radius
		}
		if u.Fill != nil {
			next.Fill = *u.Fill
		}
		if next == s.marker {
			return false, nil
		}
		s.marker = next
		return true, nil
	})
}
