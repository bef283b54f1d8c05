package enginesel_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/ignitekv/internal/enginesel"
	"github.com/iamNilotpal/ignitekv/pkg/options"
)

func newOpts(dir string) options.Options {
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	return opts
}

func TestOpenWritesSidecarOnFirstUse(t *testing.T) {
	dir := t.TempDir()
	log := zap.NewNop().Sugar()

	eng, err := enginesel.Open(enginesel.KVS, newOpts(dir), log)
	require.NoError(t, err)
	require.NoError(t, eng.Close())

	sidecar, err := os.ReadFile(filepath.Join(dir, "engine"))
	require.NoError(t, err)
	require.Equal(t, "kvs", string(sidecar))

	// Reopening with the same engine name succeeds.
	eng2, err := enginesel.Open(enginesel.KVS, newOpts(dir), log)
	require.NoError(t, err)
	require.NoError(t, eng2.Close())
}

func TestOpenRejectsMismatchedEngine(t *testing.T) {
	dir := t.TempDir()
	log := zap.NewNop().Sugar()

	eng, err := enginesel.Open(enginesel.KVS, newOpts(dir), log)
	require.NoError(t, err)
	require.NoError(t, eng.Close())

	_, err = enginesel.Open(enginesel.Sled, newOpts(dir), log)
	require.Error(t, err)
}

func TestOpenSledEngine(t *testing.T) {
	dir := t.TempDir()
	log := zap.NewNop().Sugar()

	eng, err := enginesel.Open(enginesel.Sled, newOpts(dir), log)
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.Set("key1", "value1"))
	value, ok, err := eng.Get("key1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value1", value)
}

// TestEnginesAgreeOnBehavior runs the same Get/Set/Remove sequence against
// both engine backends, since both must satisfy the same KvStoreEngine
// contract.
func TestEnginesAgreeOnBehavior(t *testing.T) {
	log := zap.NewNop().Sugar()

	for _, name := range []enginesel.Name{enginesel.KVS, enginesel.Sled} {
		name := name
		t.Run(string(name), func(t *testing.T) {
			dir := t.TempDir()
			eng, err := enginesel.Open(name, newOpts(dir), log)
			require.NoError(t, err)
			defer eng.Close()

			_, ok, err := eng.Get("missing")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, eng.Set("a", "1"))
			require.NoError(t, eng.Set("a", "2"))

			value, ok, err := eng.Get("a")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "2", value)

			require.NoError(t, eng.Remove("a"))
			_, ok, err = eng.Get("a")
			require.NoError(t, err)
			require.False(t, ok)

			err = eng.Remove("a")
			require.Error(t, err)
		})
	}
}
