package style

import "github.com/couchcryptid/flowline-styler/internal/domain"

// Snapshot is an immutable copy of the store taken at one revision.
type Snapshot struct {
	Revision   uint64                 `json:"revision"`
	Zoom       int                    `json:"zoom"`
	Threshold  int                    `json:"threshold"`
	Thresholds [domain.ZoomLevels]int `json:"thresholds"`
	Lock       bool                   `json:"lock"`
	Highlight  domain.RGBA            `json:"highlight"`
	Ramp       domain.RampParams      `json:"range"`
	Marker     domain.MarkerStyle     `json:"marker"`
}

// ThresholdFor returns the clip threshold for tiles at zoom z: the active
// threshold at the view zoom, the table value elsewhere. Zooms beyond the
// table clamp to its ends.
func (s Snapshot) ThresholdFor(z int) int {
	if z == s.Zoom {
		return s.Threshold
	}
	switch {
	case z < 0:
		z = 0
	case z >= domain.ZoomLevels:
		z = domain.ZoomLevels - 1
	}
	return s.Thresholds[z]
}

// Clip returns the stream-order classifier parameters for zoom z.
func (s Snapshot) Clip(z int) domain.ClipParams {
	return domain.ClipParams{Threshold: s.ThresholdFor(z), Highlight: s.Highlight.Pixel()}
}

// MarkerCSS is the marker color in CSS notation, for clients drawing gages
// themselves.
func (s Snapshot) MarkerCSS() string { return s.Marker.CSS() }
