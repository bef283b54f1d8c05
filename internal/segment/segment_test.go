package segment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/ignitekv/internal/segment"
)

func TestNameAndParseGenerationRoundTrip(t *testing.T) {
	name := segment.Name(42)
	require.Equal(t, "42.log", name)

	gen, ok := segment.ParseGeneration(name)
	require.True(t, ok)
	require.EqualValues(t, 42, gen)
}

func TestParseGenerationRejectsNonLogFiles(t *testing.T) {
	_, ok := segment.ParseGeneration("engine")
	require.False(t, ok)

	_, ok = segment.ParseGeneration("notanumber.log")
	require.False(t, ok)

	_, ok = segment.ParseGeneration(".log")
	require.False(t, ok)
}

func TestDiscoverSortsNumerically(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10.log", "2.log", "1.log", "engine", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	generations, err := segment.Discover(dir)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 10}, generations)
}

func TestWriterTracksOffset(t *testing.T) {
	dir := t.TempDir()

	w, err := segment.NewWriter(dir, 1)
	require.NoError(t, err)
	defer w.Close()

	require.EqualValues(t, 0, w.Offset())

	off1, n1, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	require.EqualValues(t, 0, off1)
	require.Equal(t, 5, n1)
	require.NoError(t, w.Flush())
	require.EqualValues(t, 5, w.Offset())

	off2, _, err := w.Write([]byte("world!"))
	require.NoError(t, err)
	require.EqualValues(t, 5, off2)
	require.NoError(t, w.Flush())
	require.EqualValues(t, 11, w.Offset())
}

func TestWriterReopenAppendsAtEnd(t *testing.T) {
	dir := t.TempDir()

	w1, err := segment.NewWriter(dir, 1)
	require.NoError(t, err)
	_, _, err = w1.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, w1.Close())

	w2, err := segment.NewWriter(dir, 1)
	require.NoError(t, err)
	defer w2.Close()
	require.EqualValues(t, 3, w2.Offset())
}

func TestReaderPoolReadAt(t *testing.T) {
	dir := t.TempDir()

	w, err := segment.NewWriter(dir, 1)
	require.NoError(t, err)
	_, _, err = w.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	pool := segment.NewReaderPool(dir)
	require.NoError(t, pool.Open(1))
	defer pool.Close()

	got, err := pool.ReadAt(1, 0, 5)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))

	got, err = pool.ReadAt(1, 6, 5)
	require.NoError(t, err)
	require.Equal(t, "world", string(got))
}

func TestReaderPoolRemove(t *testing.T) {
	dir := t.TempDir()
	w, err := segment.NewWriter(dir, 1)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	pool := segment.NewReaderPool(dir)
	require.NoError(t, pool.Open(1))
	require.NoError(t, pool.Remove(1))

	_, err = pool.ReadAt(1, 0, 1)
	require.Error(t, err)
}
