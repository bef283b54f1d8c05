package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// RecordPointer locates a key's current value: which generation's segment
// file holds it, the byte offset the record starts at, and how many bytes
// the serialized record occupies. Recovery, compaction and the engine's Set
// path construct them; Index only stores and returns them.
type RecordPointer struct {
	Generation uint64
	Offset     int64
	Length     int64
}

// Index is the in-memory map from key to its current RecordPointer. Unlike
// segment files, the index is never itself persisted — every Open rebuilds
// it from scratch by replaying the command log (see internal/recovery).
type Index struct {
	dataDir string             // Directory containing the segment files this index describes.
	log     *zap.SugaredLogger // Structured logging for index operations.

	mu      sync.RWMutex             // Protects entries against concurrent access.
	entries map[string]RecordPointer // The key -> location mapping.

	closed atomic.Bool
}

// Config carries the dependencies Index needs at construction time.
type Config struct {
	DataDir string
	Logger  *zap.SugaredLogger
}
