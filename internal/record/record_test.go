package record_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/ignitekv/internal/record"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []record.Command{
		record.NewSet("key1", "value1"),
		record.NewRemove("key1"),
		record.NewGet("key1"),
	}

	for _, c := range cases {
		var buf bytes.Buffer
		require.NoError(t, record.Encode(&buf, c))

		dec := record.NewDecoder(&buf)
		got, err := dec.Decode()
		require.NoError(t, err)
		require.Equal(t, c.Kind(), got.Kind())
	}
}

func TestExternallyTaggedShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, record.Encode(&buf, record.NewSet("k", "v")))
	require.Contains(t, buf.String(), `"Set"`)
	require.Contains(t, buf.String(), `"key":"k"`)
	require.Contains(t, buf.String(), `"value":"v"`)
}

func TestDecoderOffsetAdvancesPerRecord(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, record.Encode(&buf, record.NewSet("a", "1")))
	firstRecordLen := buf.Len()
	require.NoError(t, record.Encode(&buf, record.NewSet("b", "2")))
	totalLen := buf.Len()

	dec := record.NewDecoder(&buf)

	_, err := dec.Decode()
	require.NoError(t, err)
	require.EqualValues(t, firstRecordLen, dec.Offset())

	_, err = dec.Decode()
	require.NoError(t, err)
	require.EqualValues(t, totalLen, dec.Offset())
}

func TestDecodeStopsAtEOF(t *testing.T) {
	dec := record.NewDecoder(strings.NewReader(""))
	_, err := dec.Decode()
	require.Error(t, err)
}

func TestKindOfEmptyCommandIsInvalid(t *testing.T) {
	var c record.Command
	require.Equal(t, record.KindInvalid, c.Kind())
}
