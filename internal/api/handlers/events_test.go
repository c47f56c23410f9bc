package handlers

import (
	"path-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFeedRecordsInOrder(t *testing.T) {
	f := NewEventFeed(10)

	f.InputLockRequested()
	f.EntryUpdated(domain.EntryID(7))
	f.AggregateUpdated(domain.Totals{DistanceMeters: 1500, DurationSeconds: 1800})
	f.Warn("boom")
	f.InputLockReleased()

	res := f.Since(0)
	require.Len(t, res.Events, 5)
	assert.Equal(t, int64(5), res.LastSeq)
	assert.Equal(t, 0, res.LockDepth)

	assert.Equal(t, EventInputLocked, res.Events[0].Kind)
	assert.Equal(t, EventEntryUpdated, res.Events[1].Kind)
	require.NotNil(t, res.Events[1].EntryID)
	assert.Equal(t, int64(7), *res.Events[1].EntryID)
	assert.Equal(t, "Total: 1.50 km,0.50 h", res.Events[2].Summary)
	assert.Equal(t, "boom", res.Events[3].Message)
	assert.Equal(t, EventInputUnlocked, res.Events[4].Kind)

	later := f.Since(3)
	require.Len(t, later.Events, 2)
	assert.Equal(t, int64(4), later.Events[0].Seq)
}

func TestEventFeedIsBounded(t *testing.T) {
	f := NewEventFeed(3)

	for i := 1; i <= 5; i++ {
		f.EntryUpdated(domain.EntryID(i))
	}

	res := f.Since(0)
	require.Len(t, res.Events, 3)
	assert.Equal(t, int64(3), res.Events[0].Seq)
	assert.Equal(t, int64(5), res.LastSeq)
}

func TestEventFeedLockDepth(t *testing.T) {
	f := NewEventFeed(0)

	f.InputLockRequested()
	f.InputLockRequested()
	assert.Equal(t, 2, f.LockDepth())

	f.InputLockReleased()
	f.InputLockReleased()
	assert.Equal(t, 0, f.LockDepth())

	// Unbalanced releases are logged and ignored.
	f.InputLockReleased()
	assert.Equal(t, 0, f.LockDepth())
	assert.Len(t, f.Since(0).Events, 4)
}
