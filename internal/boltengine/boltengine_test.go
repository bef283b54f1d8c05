package boltengine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/ignitekv/internal/boltengine"
	"github.com/iamNilotpal/ignitekv/pkg/errors"
)

func TestSetGetRemove(t *testing.T) {
	dir := t.TempDir()
	eng, err := boltengine.Open(dir)
	require.NoError(t, err)
	defer eng.Close()

	_, ok, err := eng.Get("key1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, eng.Set("key1", "value1"))

	value, ok, err := eng.Get("key1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value1", value)

	require.NoError(t, eng.Remove("key1"))
	_, ok, err = eng.Get("key1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveMissingKeyReturnsKeyNotFound(t *testing.T) {
	dir := t.TempDir()
	eng, err := boltengine.Open(dir)
	require.NoError(t, err)
	defer eng.Close()

	err = eng.Remove("missing")
	require.Error(t, err)
	require.True(t, errors.IsKeyNotFound(err))
}

func TestReopenPreservesData(t *testing.T) {
	dir := t.TempDir()
	eng, err := boltengine.Open(dir)
	require.NoError(t, err)
	require.NoError(t, eng.Set("key1", "value1"))
	require.NoError(t, eng.Close())

	eng2, err := boltengine.Open(dir)
	require.NoError(t, err)
	defer eng2.Close()

	value, ok, err := eng2.Get("key1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value1", value)
}
