package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/ignitekv/internal/engine"
	"github.com/iamNilotpal/ignitekv/internal/record"
	"github.com/iamNilotpal/ignitekv/internal/wire"
	"github.com/iamNilotpal/ignitekv/pkg/options"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	e, err := engine.New(&engine.Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestHandleSetThenGet(t *testing.T) {
	eng := newTestEngine(t)

	var out bytes.Buffer
	var in bytes.Buffer
	require.NoError(t, record.Encode(&in, record.NewSet("key1", "value1")))
	require.NoError(t, wire.Handle(&in, &out, eng))
	require.Equal(t, "", out.String())

	out.Reset()
	in.Reset()
	require.NoError(t, record.Encode(&in, record.NewGet("key1")))
	require.NoError(t, wire.Handle(&in, &out, eng))
	require.Equal(t, "value1", out.String())
}

func TestHandleGetMissingKey(t *testing.T) {
	eng := newTestEngine(t)

	var out bytes.Buffer
	var in bytes.Buffer
	require.NoError(t, record.Encode(&in, record.NewGet("missing")))
	require.NoError(t, wire.Handle(&in, &out, eng))
	require.True(t, wire.IsKeyNotFound(out.String()))
}

func TestHandleRemoveMissingKeyRespondsKeyNotFound(t *testing.T) {
	eng := newTestEngine(t)

	var out bytes.Buffer
	var in bytes.Buffer
	require.NoError(t, record.Encode(&in, record.NewRemove("missing")))
	require.NoError(t, wire.Handle(&in, &out, eng))
	require.True(t, wire.IsKeyNotFound(out.String()))
}

func TestHandleRemoveSuccess(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.Set("key1", "value1"))

	var out bytes.Buffer
	var in bytes.Buffer
	require.NoError(t, record.Encode(&in, record.NewRemove("key1")))
	require.NoError(t, wire.Handle(&in, &out, eng))
	require.Equal(t, "", out.String())
}

func TestParseResponseClassifiesServerError(t *testing.T) {
	isErr, display := wire.ParseResponse("Server error: boom")
	require.True(t, isErr)
	require.Equal(t, "boom", display)

	isErr, display = wire.ParseResponse("value1")
	require.False(t, isErr)
	require.Equal(t, "value1", display)
}
