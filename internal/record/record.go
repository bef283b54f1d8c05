// Package record defines the command log's on-disk and on-wire
// representation: the externally-tagged Set/Remove/Get commands that are
// streamed into segment files and sent across the wire protocol.
package record

import (
	"encoding/json"
	"io"
)

// Command is the externally-tagged union of the three operations the store
// understands. Exactly one field is non-nil at a time, matching the shape
// `{"Set":{"key":...,"value":...}}` / `{"Remove":{"key":...}}` /
// `{"Get":{"key":...}}`.
type Command struct {
	Set    *SetCommand    `json:"Set,omitempty"`
	Remove *RemoveCommand `json:"Remove,omitempty"`
	Get    *GetCommand    `json:"Get,omitempty"`
}

// SetCommand stores value under key.
type SetCommand struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RemoveCommand deletes key.
type RemoveCommand struct {
	Key string `json:"key"`
}

// GetCommand requests the value for key. It is wire-only: a GetCommand must
// never be written into a segment, since the log only records mutations.
type GetCommand struct {
	Key string `json:"key"`
}

// NewSet builds a Set command.
func NewSet(key, value string) Command {
	return Command{Set: &SetCommand{Key: key, Value: value}}
}

// NewRemove builds a Remove command.
func NewRemove(key string) Command {
	return Command{Remove: &RemoveCommand{Key: key}}
}

// NewGet builds a Get command.
func NewGet(key string) Command {
	return Command{Get: &GetCommand{Key: key}}
}

// Kind identifies which variant a Command holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindSet
	KindRemove
	KindGet
)

// Kind reports which variant is populated, or KindInvalid if the command was
// never constructed through one of the New* functions (or decoded from a
// empty/malformed object).
func (c Command) Kind() Kind {
	switch {
	case c.Set != nil:
		return KindSet
	case c.Remove != nil:
		return KindRemove
	case c.Get != nil:
		return KindGet
	default:
		return KindInvalid
	}
}

// Encode writes c to w as a single JSON object with no trailing separator.
// json.Marshal is used instead of json.NewEncoder, which always appends a
// trailing newline — that newline would be counted in the writer's own
// before/after offsets around an encoded record but only consumed by the
// decoder on the following Decode call, so write-time and replay-time
// (offset, length) accounting would disagree on where one record ends and
// the next begins.
func Encode(w io.Writer, c Command) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decoder streams Commands from a reader, tracking byte offsets the way the
// recovery procedure needs: after each successful Decode, Offset reports the
// byte position immediately following the record just read, which is also
// where the next record (if any) begins.
type Decoder struct {
	jd *json.Decoder
}

// NewDecoder wraps r for streaming command decode.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{jd: json.NewDecoder(r)}
}

// Decode reads the next Command. It returns io.EOF when the stream is
// exhausted with no partial record pending.
func (d *Decoder) Decode() (Command, error) {
	var c Command
	if err := d.jd.Decode(&c); err != nil {
		return Command{}, err
	}
	return c, nil
}

// Offset returns the byte position immediately after the most recently
// decoded record — the Go equivalent of serde_json's byte_offset().
func (d *Decoder) Offset() int64 {
	return d.jd.InputOffset()
}
