// Package index provides the in-memory key -> location map for the ignitekv
// command log. It holds no value bytes itself — only the coordinates
// (generation, offset, length) a reader needs to fetch a value from its
// segment file, following a Bitcask-style separation of index from data.
package index

import (
	stdErrors "errors"

	"github.com/iamNilotpal/ignitekv/pkg/errors"
)

var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// New creates an empty Index. config.DataDir is retained for diagnostics
// only — the index itself holds no file handles.
func New(config *Config) (*Index, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:     config.Logger,
		dataDir: config.DataDir,
		entries: make(map[string]RecordPointer, 1024),
	}, nil
}

// Get looks up the current location of key.
func (idx *Index) Get(key string) (RecordPointer, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ptr, ok := idx.entries[key]
	return ptr, ok
}

// Set records key's current location, returning the previous pointer (if
// any) so the caller can account for the bytes it shadows.
func (idx *Index) Set(key string, ptr RecordPointer) (RecordPointer, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	prev, existed := idx.entries[key]
	idx.entries[key] = ptr
	return prev, existed
}

// Remove deletes key's entry, returning the pointer that was removed (if
// any) so the caller can account for its bytes as reclaimable.
func (idx *Index) Remove(key string) (RecordPointer, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	ptr, ok := idx.entries[key]
	if ok {
		delete(idx.entries, key)
	}
	return ptr, ok
}

// Len reports how many live keys the index currently holds.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Snapshot returns a copy of the full key -> location map, used by
// compaction to decide what to copy forward without holding the index lock
// for the duration of the copy.
func (idx *Index) Snapshot() map[string]RecordPointer {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string]RecordPointer, len(idx.entries))
	for k, v := range idx.entries {
		out[k] = v
	}
	return out
}

// Replace atomically swaps the entire map, used by compaction once the
// copy-forward pass has produced a fresh set of pointers.
func (idx *Index) Replace(entries map[string]RecordPointer) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = entries
}

// Close releases the index's backing map. The index cannot be used again
// afterwards.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Infow("closing index")

	idx.mu.Lock()
	defer idx.mu.Unlock()

	clear(idx.entries)
	idx.entries = nil

	idx.log.Infow("index closed")
	return nil
}
