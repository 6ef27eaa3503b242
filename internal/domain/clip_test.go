package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStreamOrder(t *testing.T) {
	highlight := RGBA{R: 238, G: 153, B: 0, A: 255}.Pixel()
	params := ClipParams{Threshold: 4, Highlight: highlight}

	t.Run("value above threshold is highlighted", func(t *testing.T) {
		out := ClassifyStreamOrder(Pack(5, 0, 0, 0xFF), params)
		assert.Equal(t, Pixel(255<<24|0<<16|153<<8|238), out)
	})

	t.Run("value equal to threshold is highlighted", func(t *testing.T) {
		assert.Equal(t, highlight, ClassifyStreamOrder(Pack(4, 0, 0, 0xFF), params))
	})

	t.Run("value below threshold is dropped", func(t *testing.T) {
		for v := uint8(0); v < 4; v++ {
			assert.Equal(t, Transparent, ClassifyStreamOrder(Pack(v, 0, 0, 0xFF), params), "value %d", v)
		}
	})

	t.Run("transparent input is dropped regardless of value", func(t *testing.T) {
		for _, p := range []Pixel{0x00000005, 0x00000007, 0x00123456, 0x00FFFFFF} {
			assert.Equal(t, Transparent, ClassifyStreamOrder(p, params))
		}
	})

	t.Run("no data is dropped", func(t *testing.T) {
		assert.Equal(t, Transparent, ClassifyStreamOrder(0xFFFFFFFF, params))
		assert.Equal(t, Transparent, ClassifyStreamOrder(0x01FFFFFF, params))
	})

	t.Run("large encoded values pass", func(t *testing.T) {
		assert.Equal(t, highlight, ClassifyStreamOrder(0xFFFFFFFE, params))
	})

	t.Run("idempotent", func(t *testing.T) {
		p := Pack(6, 0, 0, 0x80)
		assert.Equal(t, ClassifyStreamOrder(p, params), ClassifyStreamOrder(p, params))
	})
}

func TestRGBA_Pixel(t *testing.T) {
	assert.Equal(t, Pixel(0x80FFFFFF), DefaultHighlight.Pixel())
	assert.Equal(t, Pixel(0xFF0099EE), RGBA{R: 0xEE, G: 0x99, B: 0x00, A: 0xFF}.Pixel())
}

func TestRGBA_With(t *testing.T) {
	c, err := RGBA{}.With(ChannelGreen, 200)
	require.NoError(t, err)
	assert.Equal(t, RGBA{G: 200}, c)

	_, err = RGBA{}.With(Channel("x"), 1)
	assert.ErrorIs(t, err, ErrUnknownChannel)
}

func TestParseChannel(t *testing.T) {
	for in, want := range map[string]Channel{
		"r": ChannelRed, "red": ChannelRed,
		"g": ChannelGreen, "green": ChannelGreen,
		"b": ChannelBlue, "blue": ChannelBlue,
		"a": ChannelAlpha, "alpha": ChannelAlpha,
	} {
		got, err := ParseChannel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseChannel("cyan")
	assert.ErrorIs(t, err, ErrUnknownChannel)
}
