package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFlipsMembership(t *testing.T) {
	ws := NewWatchlistService(newMemMedium(), testLogger())
	ctx := context.Background()
	event := testEvent("Warehouse Rave")

	added := ws.Toggle(ctx, event)
	assert.True(t, added)
	assert.True(t, ws.Contains(ctx, event.ID))

	added = ws.Toggle(ctx, event)
	assert.False(t, added)
	assert.False(t, ws.Contains(ctx, event.ID))
	assert.Empty(t, ws.List(ctx))
}

func TestAddIsIdempotentPerID(t *testing.T) {
	medium := newMemMedium()
	ws := NewWatchlistService(medium, testLogger())
	ctx := context.Background()
	event := testEvent("Jazz Night")

	ws.Add(ctx, event)
	ws.Add(ctx, event)

	require.Len(t, ws.List(ctx), 1)
	assert.Equal(t, 1, medium.putCalls)
}

func TestRemoveAbsentIDDoesNotWrite(t *testing.T) {
	medium := newMemMedium()
	ws := NewWatchlistService(medium, testLogger())
	ctx := context.Background()

	ws.Remove(ctx, testEvent("ghost").ID)

	assert.Equal(t, 0, medium.putCalls)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	ws := NewWatchlistService(newMemMedium(), testLogger())
	ctx := context.Background()

	titles := []string{"First", "Second", "Third", "Fourth", "Fifth"}
	for _, title := range titles {
		ws.Add(ctx, testEvent(title))
	}

	got := ws.List(ctx)
	require.Len(t, got, len(titles))
	for i, title := range titles {
		assert.Equal(t, title, got[i].Title)
	}
}

func TestRemoveKeepsRelativeOrder(t *testing.T) {
	ws := NewWatchlistService(newMemMedium(), testLogger())
	ctx := context.Background()

	first := testEvent("First")
	second := testEvent("Second")
	third := testEvent("Third")
	ws.Add(ctx, first)
	ws.Add(ctx, second)
	ws.Add(ctx, third)

	ws.Remove(ctx, second.ID)

	got := ws.List(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "Third", got[1].Title)
}

func TestReadFailureDegradesToEmpty(t *testing.T) {
	medium := newMemMedium()
	medium.getErr = errors.New("disk on fire")
	ws := NewWatchlistService(medium, testLogger())
	ctx := context.Background()

	assert.Empty(t, ws.List(ctx))
	assert.False(t, ws.Contains(ctx, testEvent("x").ID))
}

func TestCorruptPayloadTreatedAsEmpty(t *testing.T) {
	medium := newMemMedium()
	medium.data[WatchlistKey] = []byte("{not json")
	ws := NewWatchlistService(medium, testLogger())

	assert.Empty(t, ws.List(context.Background()))
}

func TestWriteFailureDoesNotSurface(t *testing.T) {
	medium := newMemMedium()
	medium.putErr = errors.New("readonly filesystem")
	ws := NewWatchlistService(medium, testLogger())
	ctx := context.Background()

	added := ws.Toggle(ctx, testEvent("Doomed"))

	// The write is lost but the caller never sees an error.
	assert.True(t, added)
	assert.Empty(t, ws.List(ctx))
}
