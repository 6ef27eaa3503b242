package domain

// Channel names one component of an RGBA color.
type Channel string

const (
	ChannelRed   Channel = "r"
	ChannelGreen Channel = "g"
	ChannelBlue  Channel = "b"
	ChannelAlpha Channel = "a"
)

// ParseChannel accepts "r", "g", "b", "a" or their long names.
func ParseChannel(s string) (Channel, error) {
	switch s {
	case "r", "red":
		return ChannelRed, nil
	case "g", "green":
		return ChannelGreen, nil
	case "b", "blue":
		return ChannelBlue, nil
	case "a", "alpha":
		return ChannelAlpha, nil
	default:
		return "", ErrUnknownChannel
	}
}

// RGBA is a color with one byte per channel.
type RGBA struct {
	R uint8 `json:"r" toml:"r"`
	G uint8 `json:"g" toml:"g"`
	B uint8 `json:"b" toml:"b"`
	A uint8 `json:"a" toml:"a"`
}

// With returns a copy of the color with one channel replaced.
func (c RGBA) With(ch Channel, v uint8) (RGBA, error) {
	switch ch {
	case ChannelRed:
		c.R = v
	case ChannelGreen:
		c.G = v
	case ChannelBlue:
		c.B = v
	case ChannelAlpha:
		c.A = v
	default:
		return c, ErrUnknownChannel
	}
	return c, nil
}

// Pixel packs the color as (A&0xFF)<<24 | (B&0xFF)<<16 | (G&0xFF)<<8 | (R&0xFF).
func (c RGBA) Pixel() Pixel {
	return Pack(c.R, c.G, c.B, c.A)
}

// DefaultHighlight is the color given to flowlines that pass the clip.
var DefaultHighlight = RGBA{R: 255, G: 255, B: 255, A: 128}

const (
	MinStreamOrder = 1
	MaxStreamOrder = 7
)

// ClipParams holds everything the stream-order classifier reads.
type ClipParams struct {
	Threshold int
	Highlight Pixel
}

// ClassifyStreamOrder returns the highlight pixel when the encoded stream
// order is at least the threshold, and Transparent otherwise.
func ClassifyStreamOrder(p Pixel, c ClipParams) Pixel {
	if p.Alpha() == 0 {
		return Transparent
	}
	if passesThreshold(p.Value(), c.Threshold) && !p.IsNoData() {
		return c.Highlight
	}
	return Transparent
}

func passesThreshold(value uint32, threshold int) bool {
	if threshold <= 0 {
		return true
	}
	return value >= uint32(threshold)
}
