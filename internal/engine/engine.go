// Package engine implements the command-log key-value engine: the single
// concrete type that backs the "kvs" side of the store's pluggable
// KvStoreEngine interface (internal/boltengine implements the "sled" side).
//
// It orchestrates three subsystems: the in-memory index (internal/index),
// the append-only segment log (internal/segment), and online compaction
// (internal/compaction), plus the recovery pass (internal/recovery) that
// rebuilds the first two from disk on every open.
package engine

import (
	"bytes"
	stdErrors "errors"

	"go.uber.org/multierr"

	"github.com/iamNilotpal/ignitekv/internal/compaction"
	"github.com/iamNilotpal/ignitekv/internal/index"
	"github.com/iamNilotpal/ignitekv/internal/record"
	"github.com/iamNilotpal/ignitekv/internal/recovery"
	"github.com/iamNilotpal/ignitekv/internal/segment"
	"github.com/iamNilotpal/ignitekv/pkg/errors"
	"github.com/iamNilotpal/ignitekv/pkg/filesys"
)

// ErrEngineClosed is returned by every method once Close has run.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

// KvStoreEngine is the contract both the command-log engine and the
// bbolt-backed comparator satisfy, so the server can select between them
// with --engine kvs|sled without the wire protocol or CLI caring which one
// is live.
type KvStoreEngine interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

var _ KvStoreEngine = (*KvStore)(nil)

// KvStore is the log-structured engine.
type KvStore = Engine

// New opens (or creates) a command log rooted at config.Options.DataDir,
// replaying every existing generation to rebuild the index and reclaimable
// counter before returning a ready-to-use engine.
func New(config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	dataDir := config.Options.DataDir
	config.Logger.Infow("opening engine", "dataDir", dataDir)

	if err := filesys.CreateDir(dataDir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, dataDir)
	}

	generations, err := segment.Discover(dataDir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to discover segments").
			WithPath(dataDir)
	}

	idx, err := index.New(&index.Config{DataDir: dataDir, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	result, err := recovery.Load(dataDir, generations, config.Options.Lenient)
	if err != nil {
		return nil, err
	}
	idx.Replace(result.Entries)

	pool := segment.NewReaderPool(dataDir)
	for _, gen := range generations {
		if err := pool.Open(gen); err != nil {
			return nil, err
		}
	}

	newGeneration := uint64(1)
	if len(generations) > 0 {
		newGeneration = generations[len(generations)-1] + 1
	}

	writer, err := segment.NewWriter(dataDir, newGeneration)
	if err != nil {
		return nil, err
	}
	if err := pool.Open(newGeneration); err != nil {
		return nil, err
	}

	e := &Engine{
		dataDir:     dataDir,
		options:     config.Options,
		log:         config.Logger,
		index:       idx,
		pool:        pool,
		writer:      writer,
		compactor:   compaction.New(dataDir, config.Logger),
		reclaimable: result.Reclaimable,
	}

	config.Logger.Infow("engine opened",
		"dataDir", dataDir,
		"generations", generations,
		"activeGeneration", newGeneration,
		"liveKeys", idx.Len(),
		"reclaimable", result.Reclaimable,
	)

	return e, nil
}

// Get returns the value for key if one is live. It takes e.mu, the same
// lock Set and Remove hold for their whole duration, so a Get can never
// observe a RecordPointer into a generation that a concurrent compaction
// closes and deletes out from under it — calls into one Engine are fully
// serialized, satisfying the single-writer, single-reader concurrency
// model the surrounding server relies on.
func (e *Engine) Get(key string) (string, bool, error) {
	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ptr, ok := e.index.Get(key)
	if !ok {
		return "", false, nil
	}

	data, err := e.pool.ReadAt(ptr.Generation, ptr.Offset, ptr.Length)
	if err != nil {
		return "", false, err
	}

	cmd, err := decodeOne(data)
	if err != nil {
		return "", false, errors.NewSerdeError(err, ptr.Generation, ptr.Offset)
	}
	if cmd.Kind() != record.KindSet {
		return "", false, errors.NewUnexpectedCommandError(ptr.Generation, ptr.Offset, "non-Set")
	}

	return cmd.Set.Value, true, nil
}

// Set stores value under key, appending a Set record to the active
// generation and updating the index. Only the length of any record this
// write shadows is added to the reclaimable counter — never this write's
// own length.
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := encodeCommand(record.NewSet(key, value))
	if err != nil {
		return errors.NewSerdeError(err, e.writer.Generation(), e.writer.Offset())
	}

	offset, n, err := e.writer.Write(data)
	if err != nil {
		return err
	}
	if err := e.writer.Flush(); err != nil {
		return err
	}

	ptr := index.RecordPointer{Generation: e.writer.Generation(), Offset: offset, Length: int64(n)}
	if prev, existed := e.index.Set(key, ptr); existed {
		e.reclaimable += prev.Length
	}

	return e.maybeCompactLocked()
}

// Remove deletes key. Both the shadowed record's length and the length of
// the Remove record itself are added to the reclaimable counter, since
// neither will ever be copied forward by compaction.
func (e *Engine) Remove(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.index.Get(key); !ok {
		return errors.NewKeyNotFoundError(key)
	}

	data, err := encodeCommand(record.NewRemove(key))
	if err != nil {
		return errors.NewSerdeError(err, e.writer.Generation(), e.writer.Offset())
	}

	_, n, err := e.writer.Write(data)
	if err != nil {
		return err
	}
	if err := e.writer.Flush(); err != nil {
		return err
	}

	prev, _ := e.index.Remove(key)
	e.reclaimable += prev.Length + int64(n)

	return e.maybeCompactLocked()
}

// maybeCompactLocked triggers compaction once reclaimable bytes cross the
// configured threshold. Callers must hold e.mu. The compacting guard
// suppresses re-triggering while a compaction is in flight; Compactor.Run
// does not call back into Set/Remove, so no nested check is reached during a
// Run; the guard keeps any such call from starting a second compaction.
func (e *Engine) maybeCompactLocked() error {
	if e.compacting || e.reclaimable < e.options.CompactionThreshold {
		return nil
	}

	e.compacting = true
	defer func() { e.compacting = false }()

	oldGenerations := e.pool.Generations()
	staleGeneration := e.writer.Generation()
	snapshot := e.index.Snapshot()

	result, err := e.compactor.Run(oldGenerations, staleGeneration, snapshot, e.pool)
	if err != nil {
		e.log.Errorw("compaction failed", "error", err)
		return err
	}

	if err := e.writer.Close(); err != nil {
		return err
	}

	newWriter, err := segment.NewWriter(e.dataDir, result.NewGeneration)
	if err != nil {
		return err
	}

	if err := e.pool.Open(result.NewGeneration); err != nil {
		_ = newWriter.Close()
		return err
	}

	e.index.Replace(result.Entries)
	e.writer = newWriter

	for _, gen := range result.OldGenerations {
		if err := e.pool.Remove(gen); err != nil {
			e.log.Warnw("failed to close reader for compacted generation", "generation", gen, "error", err)
		}
		if err := segment.Delete(e.dataDir, gen); err != nil {
			e.log.Warnw("failed to delete compacted segment file", "generation", gen, "error", err)
		}
	}

	e.reclaimable = 0

	e.log.Infow("compaction complete",
		"newGeneration", result.NewGeneration,
		"deletedGenerations", result.OldGenerations,
		"liveKeys", len(result.Entries),
	)

	return nil
}

// Close flushes and closes the writer, reader pool, and index, aggregating
// any failures instead of stopping at the first one.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.log.Infow("closing engine")

	var err error
	err = multierr.Append(err, e.writer.Close())
	err = multierr.Append(err, e.pool.Close())
	err = multierr.Append(err, e.index.Close())

	if err != nil {
		e.log.Errorw("engine close encountered errors", "error", err)
		return err
	}

	e.log.Infow("engine closed")
	return nil
}

func encodeCommand(cmd record.Command) ([]byte, error) {
	var buf appendBuffer
	if err := record.Encode(&buf, cmd); err != nil {
		return nil, err
	}
	return buf, nil
}

func decodeOne(data []byte) (record.Command, error) {
	dec := record.NewDecoder(bytes.NewReader(data))
	return dec.Decode()
}

// appendBuffer is a minimal io.Writer over a growing byte slice.
type appendBuffer []byte

func (b *appendBuffer) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}
