package engine

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/iamNilotpal/ignitekv/internal/compaction"
	"github.com/iamNilotpal/ignitekv/internal/index"
	"github.com/iamNilotpal/ignitekv/internal/segment"
	"github.com/iamNilotpal/ignitekv/pkg/options"
)

// Engine is the log-structured key-value engine: an append-only command log
// split into generation segments, an in-memory index of key locations, and
// online compaction triggered once reclaimable bytes cross a threshold.
//
// Calls are serialized by mu: one engine instance per caller, no internal
// thread-parallelism. mu protects the writer/generation/reclaimable state
// from concurrent callers; it provides no throughput guarantee.
type Engine struct {
	dataDir string
	options *options.Options
	log     *zap.SugaredLogger

	mu          sync.Mutex
	index       *index.Index
	pool        *segment.ReaderPool
	writer      *segment.Writer
	compactor   *compaction.Compactor
	reclaimable int64
	compacting  bool

	closed atomic.Bool
}

// Config carries the dependencies Engine needs at construction time.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}
