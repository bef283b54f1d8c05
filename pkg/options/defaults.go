package options

import "time"

const (
	// DefaultDataDir is the base directory used when no directory is given
	// explicitly. CLI front-ends always override this with a flag value.
	DefaultDataDir = "/var/lib/ignitekv"

	// DefaultCompactInterval is the default CompactInterval. No background
	// sweep reads it; compaction runs only from the synchronous threshold
	// check every Set/Remove performs.
	DefaultCompactInterval = time.Hour * 5

	// DefaultCompactionThreshold is the reclaimable-bytes watermark that
	// triggers compaction: 1 MiB.
	DefaultCompactionThreshold int64 = 1024 * 1024

	// MinCompactionThreshold and MaxCompactionThreshold bound the range
	// WithCompactionThreshold will accept, preventing a misconfigured value
	// from compacting on every write or never compacting at all.
	MinCompactionThreshold int64 = 4 * 1024
	MaxCompactionThreshold int64 = 1024 * 1024 * 1024
)

// defaultOptions holds the baseline configuration for an engine instance.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	CompactInterval:     DefaultCompactInterval,
	CompactionThreshold: DefaultCompactionThreshold,
}

// NewDefaultOptions returns a copy of the baseline configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
