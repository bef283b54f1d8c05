package index_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/ignitekv/internal/index"
)

func newTestIndex(t *testing.T) *index.Index {
	t.Helper()
	idx, err := index.New(&index.Config{DataDir: t.TempDir(), Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return idx
}

func TestSetThenGet(t *testing.T) {
	idx := newTestIndex(t)

	ptr := index.RecordPointer{Generation: 1, Offset: 0, Length: 10}
	_, existed := idx.Set("key1", ptr)
	require.False(t, existed)

	got, ok := idx.Get("key1")
	require.True(t, ok)
	require.Equal(t, ptr, got)
}

func TestSetReturnsShadowedPointer(t *testing.T) {
	idx := newTestIndex(t)

	first := index.RecordPointer{Generation: 1, Offset: 0, Length: 10}
	idx.Set("key1", first)

	second := index.RecordPointer{Generation: 1, Offset: 10, Length: 12}
	prev, existed := idx.Set("key1", second)
	require.True(t, existed)
	require.Equal(t, first, prev)

	got, _ := idx.Get("key1")
	require.Equal(t, second, got)
}

func TestRemove(t *testing.T) {
	idx := newTestIndex(t)

	idx.Set("key1", index.RecordPointer{Generation: 1, Offset: 0, Length: 10})
	ptr, ok := idx.Remove("key1")
	require.True(t, ok)
	require.EqualValues(t, 10, ptr.Length)

	_, ok = idx.Get("key1")
	require.False(t, ok)

	_, ok = idx.Remove("key1")
	require.False(t, ok)
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	idx := newTestIndex(t)
	idx.Set("key1", index.RecordPointer{Generation: 1, Offset: 0, Length: 5})

	snap := idx.Snapshot()
	idx.Set("key2", index.RecordPointer{Generation: 1, Offset: 5, Length: 5})

	require.Len(t, snap, 1)
	require.Equal(t, 2, idx.Len())
}

func TestCloseIsIdempotentFailure(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Close())
	require.ErrorIs(t, idx.Close(), index.ErrIndexClosed)
}
