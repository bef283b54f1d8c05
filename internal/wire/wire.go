// Package wire implements the one-shot-per-connection protocol
// cmd/kvs-server and cmd/kvs-client speak: a client sends exactly one
// encoded record.Command, half-closes its write side, and reads the
// response body to end-of-stream. The response shapes are fixed by the
// protocol, not negotiated.
package wire

import (
	"bytes"
	"io"

	"github.com/iamNilotpal/ignitekv/internal/engine"
	"github.com/iamNilotpal/ignitekv/internal/record"
	"github.com/iamNilotpal/ignitekv/pkg/errors"
)

// keyNotFoundBody and errorPrefix are the two literal response shapes the
// protocol defines beyond a raw value body.
const (
	keyNotFoundBody = "Key not found"
	errorPrefix     = "Server error: "
)

// SendCommand writes cmd to conn, matching the wire encoding in internal/record,
// then reads the full response body to EOF. It does not half-close the write
// side (io.ReadWriter doesn't expose CloseWrite), so the read ends only when
// the peer closes the connection.
func SendCommand(rw io.ReadWriter, cmd record.Command) (string, error) {
	if err := record.Encode(rw, cmd); err != nil {
		return "", err
	}

	body, err := io.ReadAll(rw)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Handle decodes one command from r and dispatches it to eng, writing the
// protocol's response body to w. It never returns a Go error for an engine
// failure — those are folded into the "Server error: " response body, since
// the protocol has no out-of-band error channel. Handle only returns an
// error when the connection itself could not be read or written to, or the
// command was undecodable.
func Handle(r io.Reader, w io.Writer, eng engine.KvStoreEngine) error {
	dec := record.NewDecoder(r)

	cmd, err := dec.Decode()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	switch cmd.Kind() {
	case record.KindGet:
		return handleGet(w, eng, cmd.Get.Key)
	case record.KindSet:
		return handleSet(w, eng, cmd.Set.Key, cmd.Set.Value)
	case record.KindRemove:
		return handleRemove(w, eng, cmd.Remove.Key)
	default:
		_, err := io.WriteString(w, errorPrefix+"unrecognized command")
		return err
	}
}

func handleGet(w io.Writer, eng engine.KvStoreEngine, key string) error {
	value, ok, err := eng.Get(key)
	if err != nil {
		_, werr := io.WriteString(w, errorPrefix+err.Error())
		return werr
	}
	if !ok {
		_, werr := io.WriteString(w, keyNotFoundBody)
		return werr
	}
	_, werr := io.WriteString(w, value)
	return werr
}

func handleSet(w io.Writer, eng engine.KvStoreEngine, key, value string) error {
	if err := eng.Set(key, value); err != nil {
		_, werr := io.WriteString(w, errorPrefix+err.Error())
		return werr
	}
	return nil
}

func handleRemove(w io.Writer, eng engine.KvStoreEngine, key string) error {
	err := eng.Remove(key)
	if err == nil {
		return nil
	}
	if errors.IsKeyNotFound(err) {
		_, werr := io.WriteString(w, keyNotFoundBody)
		return werr
	}
	_, werr := io.WriteString(w, errorPrefix+err.Error())
	return werr
}

// ParseResponse classifies a response body the way cmd/kvs-client needs to:
// whether it represents a server-side error, and the body a non-error
// response should print.
func ParseResponse(body string) (isError bool, display string) {
	if bytes.HasPrefix([]byte(body), []byte(errorPrefix)) {
		return true, body[len(errorPrefix):]
	}
	return false, body
}

// IsKeyNotFound reports whether a response body is the literal "Key not
// found" sentinel.
func IsKeyNotFound(body string) bool {
	return body == keyNotFoundBody
}
