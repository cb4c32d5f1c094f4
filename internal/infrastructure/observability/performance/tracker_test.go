package performance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerDurationOnlySetByComplete(t *testing.T) {
	tracker := NewTracker(8)
	marker := tracker.StartOperation("fetch")

	assert.Zero(t, marker.Duration, "duration is meaningless before Complete")
	assert.False(t, marker.Completed)

	marker.SetSuccess(true)
	marker.Complete()

	assert.True(t, marker.Completed)
	assert.NotZero(t, marker.EndTime)
	assert.GreaterOrEqual(t, marker.Duration, time.Duration(0))
}

func TestMarkerSetError(t *testing.T) {
	tracker := NewTracker(8)
	marker := tracker.StartOperation("fetch")

	marker.SetSuccess(true)
	marker.SetError(errors.New("upstream timeout"))
	marker.Complete()

	assert.False(t, marker.Success)
	assert.Equal(t, "upstream timeout", marker.Error)
}

func TestRecentReturnsSnapshotAndBoundsRetention(t *testing.T) {
	tracker := NewTracker(3)
	for i := 0; i < 5; i++ {
		m := tracker.StartOperation("op")
		m.SetSuccess(true)
		m.Complete()
	}

	recent := tracker.Recent()
	require.Len(t, recent, 3, "retention is bounded")

	for _, m := range recent {
		assert.True(t, m.Completed)
		assert.True(t, m.Success)
	}

	// The snapshot is a copy: mutating it does not change the tracker.
	recent[0] = nil
	assert.NotNil(t, tracker.Recent()[0])
}
