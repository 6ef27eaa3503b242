package domain

import (
	"cmp"
	"slices"
	"time"
)

// Layer identifies one recolored map layer.
type Layer string

const (
	LayerFlowlines Layer = "flowlines"
	LayerDeciles   Layer = "deciles"
	LayerGages     Layer = "gages"
)

// Layers lists every layer in a stable order.
var Layers = []Layer{LayerFlowlines, LayerDeciles, LayerGages}

// ParseLayer validates a layer name.
func ParseLayer(s string) (Layer, error) {
	for _, l := range Layers {
		if string(l) == s {
			return l, nil
		}
	}
	return "", ErrUnknownLayer
}

// ChangeEvent signals that a style parameter changed and tiles of Layer must
// be redrawn. Revision increases by one per accepted mutation.
type ChangeEvent struct {
	Revision uint64    `json:"revision"`
	Layer    Layer     `json:"layer"`
	Param    string    `json:"param"`
	At       time.Time `json:"at"`
}

// NewChangeEvent stamps an event with the package clock.
func NewChangeEvent(rev uint64, layer Layer, param string) ChangeEvent {
	return ChangeEvent{Revision: rev, Layer: layer, Param: param, At: clock.Now().UTC()}
}

// Coalesce keeps the newest event per layer, ordered by revision.
func Coalesce(events []ChangeEvent) []ChangeEvent {
	if len(events) == 0 {
		return nil
	}
	latest := make(map[Layer]ChangeEvent, len(Layers))
	for _, e := range events {
		if cur, ok := latest[e.Layer]; !ok || e.Revision > cur.Revision {
			latest[e.Layer] = e
		}
	}

	out := make([]ChangeEvent, 0, len(latest))
	for _, e := range latest {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b ChangeEvent) int {
		return cmp.Compare(a.Revision, b.Revision)
	})
	return out
}
