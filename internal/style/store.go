// Package style holds the process-wide style parameters of the recolored
// layers and notifies subscribers whenever one of them changes.
package style

import (
	"fmt"
	"sync"

	"github.com/couchcryptid/flowline-styler/internal/domain"
)

// Store owns every style parameter. Mutations are serialized; readers take
// a Snapshot. Each accepted mutation bumps the revision and emits exactly one
// domain.ChangeEvent.
type Store struct {
	mu        sync.RWMutex
	table     *domain.ThresholdTable
	threshold int
	zoom      int
	highlight domain.RGBA
	ramp      domain.RampParams
	marker    domain.MarkerStyle
	revision  uint64

	subMu  sync.Mutex
	subs   map[int]chan domain.ChangeEvent
	nextID int
	onDrop func()
}

// Option configures a Store.
type Option func(*Store)

// WithDropHook registers a callback invoked when a slow subscriber misses an event.
func WithDropHook(fn func()) Option {
	return func(s *Store) { s.onDrop = fn }
}

// NewStore builds a store from a preset. The view zoom starts at zero and the
// active threshold at the preset's zoom-zero value.
func NewStore(p Preset, opts ...Option) (*Store, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	table, err := domain.NewThresholdTable(p.Thresholds, p.Lock)
	if err != nil {
		return nil, err
	}

	s := &Store{
		table:     table,
		threshold: p.Thresholds[0],
		highlight: p.Highlight,
		ramp:      p.Ramp,
		marker:    p.Marker,
		subs:      make(map[int]chan domain.ChangeEvent),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Revision returns the number of accepted mutations so far.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Snapshot returns a frozen copy of every parameter.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Revision:   s.revision,
		Zoom:       s.zoom,
		Threshold:  s.threshold,
		Thresholds: s.table.Values(),
		Lock:       s.table.Locked(),
		Highlight:  s.highlight,
		Ramp:       s.ramp,
		Marker:     s.marker,
	}
}

// SetThreshold changes the active clip threshold without touching the table.
func (s *Store) SetThreshold(v int) error {
	if err := domain.ValidateThreshold(v); err != nil {
		return err
	}
	return s.mutate(domain.LayerFlowlines, "threshold", func() (bool, error) {
		if s.threshold == v {
			return false, nil
		}
		s.threshold = v
		return true, nil
	})
}

// SetThresholdForZoom updates the per-zoom table. The active threshold
// follows the view zoom's slot whenever that slot is the target or is
// rewritten by lock propagation.
func (s *Store) SetThresholdForZoom(level, v int) error {
	return s.mutate(domain.LayerFlowlines, fmt.Sprintf("thresholds.%d", level), func() (bool, error) {
		before, active := s.table.Values(), s.threshold
		if err := s.table.Set(level, v); err != nil {
			return false, err
		}
		after := s.table.Values()
		if level == s.zoom || after[s.zoom] != before[s.zoom] {
			s.threshold = after[s.zoom]
		}
		return after != before || s.threshold != active, nil
	})
}

// SetLock toggles lock propagation for later table updates.
func (s *Store) SetLock(lock bool) error {
	return s.mutate(domain.LayerFlowlines, "lock", func() (bool, error) {
		if s.table.Locked() == lock {
			return false, nil
		}
		s.table.SetLock(lock)
		return true, nil
	})
}

// SetZoom moves the view zoom and resets the active threshold to the table
// value for that zoom.
func (s *Store) SetZoom(level int) error {
	if err := domain.ValidateLevel(level); err != nil {
		return err
	}
	return s.mutate(domain.LayerFlowlines, "zoom", func() (bool, error) {
		v, _ := s.table.Get(level)
		if s.zoom == level && s.threshold == v {
			return false, nil
		}
		s.zoom = level
		s.threshold = v
		return true, nil
	})
}

// SetMin changes the ramp minimum.
func (s *Store) SetMin(v int) error {
	if err := validateBound(v); err != nil {
		return err
	}
	return s.mutate(domain.LayerDeciles, "range.min", func() (bool, error) {
		if s.ramp.Min == v {
			return false, nil
		}
		s.ramp.Min = v
		return true, nil
	})
}

// SetMax changes the ramp maximum.
func (s *Store) SetMax(v int) error {
	if err := validateBound(v); err != nil {
		return err
	}
	return s.mutate(domain.LayerDeciles, "range.max", func() (bool, error) {
		if s.ramp.Max == v {
			return false, nil
		}
		s.ramp.Max = v
		return true, nil
	})
}

// SetInvert flips the ramp direction.
func (s *Store) SetInvert(invert bool) error {
	return s.mutate(domain.LayerDeciles, "range.invert", func() (bool, error) {
		if s.ramp.Invert == invert {
			return false, nil
		}
		s.ramp.Invert = invert
		return true, nil
	})
}

// SetHighlightChannel changes one channel of the flowline highlight color.
func (s *Store) SetHighlightChannel(ch domain.Channel, v int) error {
	b, err := channelByte(v)
	if err != nil {
		return err
	}
	return s.mutate(domain.LayerFlowlines, "highlight."+string(ch), func() (bool, error) {
		next, err := s.highlight.With(ch, b)
		if err != nil || next == s.highlight {
			return false, err
		}
		s.highlight = next
		return true, nil
	})
}

// SetMarkerChannel changes one channel of the gage marker color.
func (s *Store) SetMarkerChannel(ch domain.Channel, v int) error {
	b, err := channelByte(v)
	if err != nil {
		return err
	}
	return s.mutate(domain.LayerGages, "marker."+string(ch), func() (bool, error) {
		next, err := s.marker.Color.With(ch, b)
		if err != nil || next == s.marker.Color {
			return false, err
		}
		s.marker.Color = next
		return true, nil
	})
}

// SetMarkerRadius changes the gage marker radius in pixels (0-10).
func (s *Store) SetMarkerRadius(r int) error {
	if r < 0 || r > domain.MaxMarkerRadius {
		return domain.ErrRadiusOutOfRange
	}
	return s.mutate(domain.LayerGages, "marker.radius", func() (bool, error) {
		if s.marker.Radius == r {
			return false, nil
		}
		s.marker.Radius = r
		return true, nil
	})
}

// SetMarkerFill switches gage markers between filled and stroked circles.
func (s *Store) SetMarkerFill(fill bool) error {
	return s.mutate(domain.LayerGages, "marker.fill", func() (bool, error) {
		if s.marker.Fill == fill {
			return false, nil
		}
		s.marker.Fill = fill
		return true, nil
	})
}

// mutate applies fn under the write lock. When fn reports a change the
// revision is bumped and the event is published before the lock is released,
// so subscribers observe events in revision order.
func (s *Store) mutate(layer domain.Layer, param string, fn func() (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := fn()
	if err != nil || !changed {
		return err
	}
	s.revision++
	s.publish(domain.NewChangeEvent(s.revision, layer, param))
	return nil
}

func validateBound(v int) error {
	if v < domain.MinRampBound || v > domain.MaxRampBound {
		return domain.ErrRangeOutOfBounds
	}
	return nil
}

func channelByte(v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, domain.ErrChannelOutOfRange
	}
	return uint8(v), nil
}
