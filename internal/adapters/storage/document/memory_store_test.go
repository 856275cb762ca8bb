package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ergosanitas/internal/domain/apperr"
)

func TestMemoryStore_ReadWriteRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, found, err := s.Read(ctx, KeyCurrentAlert)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Write(ctx, KeyCurrentAlert, `{"id":"INC_1"}`))
	v, found, err := s.Read(ctx, KeyCurrentAlert)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"INC_1"}`, v)

	require.NoError(t, s.Remove(ctx, KeyCurrentAlert))
	_, found, _ = s.Read(ctx, KeyCurrentAlert)
	assert.False(t, found)
}

func TestMemoryStore_WatchSeesOnlyForeignWrites(t *testing.T) {
	backend := NewMemoryBackend()
	tabA := backend.View()
	tabB := backend.View()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Change, 4)
	done := make(chan error, 1)
	ready := make(chan struct{})
	go func() {
		close(ready)
		done <- tabA.Watch(ctx, func(c Change) { got <- c })
	}()
	<-ready
	waitForSubscribers(t, backend, 1)

	require.NoError(t, tabA.Write(ctx, KeyCurrentAlert, "own"))
	require.NoError(t, tabB.Write(ctx, KeyCurrentAlert, "foreign"))
	require.NoError(t, tabB.Remove(ctx, KeyCurrentAlert))

	first := receive(t, got)
	assert.Equal(t, "foreign", first.Value)
	assert.Equal(t, tabB.Origin(), first.Origin)

	second := receive(t, got)
	assert.True(t, second.Removed)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type doc struct {
		Name string `json:"name"`
	}
	require.NoError(t, PutJSON(ctx, s, KeyClubData, doc{Name: "Halcones"}))

	var out doc
	found, err := GetJSON(ctx, s, KeyClubData, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Halcones", out.Name)

	require.NoError(t, s.Write(ctx, KeyUsers, "{not json"))
	_, err = GetJSON(ctx, s, KeyUsers, &out)
	assert.True(t, errors.Is(err, apperr.ErrStorageUnavailable))
}

func TestKeysAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Keys() {
		assert.False(t, seen[k.Key], "duplicate key %s", k.Key)
		seen[k.Key] = true
	}
	assert.Len(t, seen, 7)
}

func waitForSubscribers(t *testing.T, b *MemoryBackend, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		b.mu.RLock()
		defer b.mu.RUnlock()
		return len(b.subs) >= n
	}, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
		return Change{}
	}
}
