package domain

import "errors"

var (
	ErrLevelOutOfRange     = errors.New("zoom level out of range")
	ErrThresholdOutOfRange = errors.New("stream order threshold out of range")
	ErrChannelOutOfRange   = errors.New("color channel out of range")
	ErrUnknownChannel      = errors.New("unknown color channel")
	ErrRadiusOutOfRange    = errors.New("marker radius out of range")
	ErrRangeOutOfBounds    = errors.New("ramp bound out of range")
	ErrUnknownLayer        = errors.New("unknown layer")

	// ErrDegenerateRange is reported when the ramp minimum equals its maximum.
	// The ramp then renders every in-range pixel as no data.
	ErrDegenerateRange = errors.New("ramp minimum equals maximum")
)
