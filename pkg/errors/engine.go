package errors

// EngineError is a specialized error type for the command-log engine's own
// operations (open/get/set/remove), as distinct from the lower-level storage
// and index errors those operations are built on.
type EngineError struct {
	*baseError

	// Which key the engine operation was acting on, if any.
	key string

	// Which generation and offset the engine was reading when the error
	// occurred, for Serde/UnexpectedCommandType failures during a Get.
	generation uint64
	offset     int64

	// Which operation was being performed: "Open", "Get", "Set", "Remove",
	// "Recover", "Compact".
	operation string
}

// NewEngineError creates a new engine-specific error.
func NewEngineError(err error, code ErrorCode, msg string) *EngineError {
	return &EngineError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the EngineError type.
func (ee *EngineError) WithMessage(msg string) *EngineError {
	ee.baseError.WithMessage(msg)
	return ee
}

// WithCode sets the error code while preserving the EngineError type.
func (ee *EngineError) WithCode(code ErrorCode) *EngineError {
	ee.baseError.WithCode(code)
	return ee
}

// WithDetail adds contextual information while maintaining the EngineError type.
func (ee *EngineError) WithDetail(key string, value any) *EngineError {
	ee.baseError.WithDetail(key, value)
	return ee
}

// WithKey records which key the engine was operating on.
func (ee *EngineError) WithKey(key string) *EngineError {
	ee.key = key
	return ee
}

// WithGeneration records which segment generation was being read.
func (ee *EngineError) WithGeneration(generation uint64) *EngineError {
	ee.generation = generation
	return ee
}

// WithOffset records the byte offset within the generation being read.
func (ee *EngineError) WithOffset(offset int64) *EngineError {
	ee.offset = offset
	return ee
}

// WithOperation records which engine operation was in progress.
func (ee *EngineError) WithOperation(operation string) *EngineError {
	ee.operation = operation
	return ee
}

// Key returns the key the engine was operating on, if any.
func (ee *EngineError) Key() string { return ee.key }

// Generation returns the segment generation being read when the error occurred.
func (ee *EngineError) Generation() uint64 { return ee.generation }

// Offset returns the byte offset within the generation being read.
func (ee *EngineError) Offset() int64 { return ee.offset }

// Operation returns the engine operation that was in progress.
func (ee *EngineError) Operation() string { return ee.operation }

// NewKeyNotFoundError builds the one recoverable engine error: a remove
// against a key the index has no entry for.
func NewKeyNotFoundError(key string) *EngineError {
	return NewEngineError(nil, ErrorCodeKeyNotFound, "key not found").
		WithKey(key)
}

// NewUnexpectedCommandError builds the error for a log position that decoded
// to a command kind the caller did not expect.
func NewUnexpectedCommandError(generation uint64, offset int64, got string) *EngineError {
	return NewEngineError(nil, ErrorCodeUnexpectedCommandType, "unexpected command type in log").
		WithGeneration(generation).
		WithOffset(offset).
		WithDetail("got", got)
}

// NewSerdeError wraps a decode failure encountered while replaying or
// reading a command record.
func NewSerdeError(cause error, generation uint64, offset int64) *EngineError {
	return NewEngineError(cause, ErrorCodeSerde, "failed to decode command record").
		WithGeneration(generation).
		WithOffset(offset)
}

// IsKeyNotFound reports whether err is the engine's KeyNotFound signal.
func IsKeyNotFound(err error) bool {
	ee, ok := AsEngineError(err)
	return ok && ee.Code() == ErrorCodeKeyNotFound
}
