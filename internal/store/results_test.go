package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotvoice/internal/copywriter"
)

func TestResultStorePutGet(t *testing.T) {
	s := NewResultStore(time.Hour)
	ctx := context.Background()

	res := copywriter.Result{ID: "r1", Input: "Headline", Variations: []copywriter.Variation{{Index: 1, Text: "Spot books it."}}}
	require.NoError(t, s.Put(ctx, res))

	got, found, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, res, got)
	assert.Equal(t, 1, s.Len())

	_, found, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResultStoreRejectsEmptyID(t *testing.T) {
	s := NewResultStore(time.Hour)
	assert.ErrorIs(t, s.Put(context.Background(), copywriter.Result{}), ErrEmptyID)
}

func TestResultStoreExpiry(t *testing.T) {
	s := NewResultStore(time.Millisecond)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, copywriter.Result{ID: "r1"}))
	time.Sleep(5 * time.Millisecond)

	_, found, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, found)

	s.DeleteExpired()
	assert.Equal(t, 0, s.Len())
}

func TestResultStoreNoTTL(t *testing.T) {
	s := NewResultStore(0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, copywriter.Result{ID: "r1"}))
	time.Sleep(2 * time.Millisecond)

	_, found, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestResultStoreDelete(t *testing.T) {
	s := NewResultStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, copywriter.Result{ID: "r1"}))
	require.NoError(t, s.Delete(ctx, "r1"))

	_, found, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResultStoreStartStop(t *testing.T) {
	s := NewResultStore(time.Hour)
	done := make(chan struct{})
	go func() {
		s.Start()
		close(done)
	}()
	// Stop blocks until the loop picks it up, so it is safe right after Start.
	time.Sleep(time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
