package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeEvent_UsesClock(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2012, time.July, 1, 12, 0, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	e := NewChangeEvent(3, LayerGages, "marker.radius")
	assert.Equal(t, ChangeEvent{
		Revision: 3,
		Layer:    LayerGages,
		Param:    "marker.radius",
		At:       fakeClock.Now(),
	}, e)
}

func TestCoalesce(t *testing.T) {
	events := []ChangeEvent{
		{Revision: 1, Layer: LayerFlowlines, Param: "threshold"},
		{Revision: 2, Layer: LayerGages, Param: "marker.r"},
		{Revision: 3, Layer: LayerFlowlines, Param: "highlight.a"},
		{Revision: 4, Layer: LayerDeciles, Param: "range.min"},
		{Revision: 5, Layer: LayerGages, Param: "marker.fill"},
	}

	want := []ChangeEvent{
		{Revision: 3, Layer: LayerFlowlines, Param: "highlight.a"},
		{Revision: 4, Layer: LayerDeciles, Param: "range.min"},
		{Revision: 5, Layer: LayerGages, Param: "marker.fill"},
	}
	if diff := cmp.Diff(want, Coalesce(events)); diff != "" {
		t.Fatalf("coalesce mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, Coalesce(nil))
}

func TestParseLayer(t *testing.T) {
	for _, l := range Layers {
		got, err := ParseLayer(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	_, err := ParseLayer("catchments")
	assert.ErrorIs(t, err, ErrUnknownLayer)
}
