package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/ignitekv/internal/engine"
	"github.com/iamNilotpal/ignitekv/internal/segment"
	"github.com/iamNilotpal/ignitekv/pkg/errors"
	"github.com/iamNilotpal/ignitekv/pkg/options"
)

func newTestEngine(t *testing.T, dir string) *engine.Engine {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	e, err := engine.New(&engine.Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return e
}

func TestSetThenGet(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir)
	defer e.Close()

	require.NoError(t, e.Set("key1", "value1"))

	value, ok, err := e.Get("key1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value1", value)
}

func TestGetMissingKeyIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir)
	defer e.Close()

	_, ok, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOverwriteThenGetReturnsLatest(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir)
	defer e.Close()

	require.NoError(t, e.Set("key1", "value1"))
	require.NoError(t, e.Set("key1", "value2"))

	value, ok, err := e.Get("key1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value2", value)
}

func TestRemoveThenGetIsMissing(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir)
	defer e.Close()

	require.NoError(t, e.Set("key1", "value1"))
	require.NoError(t, e.Remove("key1"))

	_, ok, err := e.Get("key1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveMissingKeyReturnsKeyNotFound(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir)
	defer e.Close()

	err := e.Remove("missing")
	require.Error(t, err)
	require.True(t, errors.IsKeyNotFound(err))
}

func TestReopenPreservesData(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir)
	require.NoError(t, e.Set("key1", "value1"))
	require.NoError(t, e.Set("key2", "value2"))
	require.NoError(t, e.Remove("key1"))
	require.NoError(t, e.Close())

	e2 := newTestEngine(t, dir)
	defer e2.Close()

	_, ok, err := e2.Get("key1")
	require.NoError(t, err)
	require.False(t, ok)

	value, ok, err := e2.Get("key2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value2", value)
}

func TestClosedEngineRejectsOperations(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir)
	require.NoError(t, e.Close())

	_, _, err := e.Get("key1")
	require.ErrorIs(t, err, engine.ErrEngineClosed)

	err = e.Set("key1", "v")
	require.ErrorIs(t, err, engine.ErrEngineClosed)

	err = e.Close()
	require.ErrorIs(t, err, engine.ErrEngineClosed)
}

func TestCompactionTriggersAtThresholdAndPreservesData(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.CompactionThreshold = options.MinCompactionThreshold

	e, err := engine.New(&engine.Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	defer e.Close()

	longValue := make([]byte, 256)
	for i := range longValue {
		longValue[i] = 'x'
	}

	for i := 0; i < 64; i++ {
		require.NoError(t, e.Set("key1", string(longValue)))
	}

	value, ok, err := e.Get("key1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, string(longValue), value)

	// Compaction replaced generation 1 and left a single segment behind.
	generations, err := segment.Discover(dir)
	require.NoError(t, err)
	require.Len(t, generations, 1)
	require.Greater(t, generations[0], uint64(1))
}
