// Package options provides data structures and functions for configuring
// the ignitekv engine. It defines the parameters that control where data is
// stored and when compaction runs, following a functional-options pattern so
// callers only specify the values they want to override.
package options

import (
	"strings"
	"time"
)

// Options defines the configuration parameters for an engine instance.
type Options struct {
	// DataDir is the directory segment files (and the engine sidecar file)
	// live in. One engine instance owns one DataDir.
	//
	// Default: "/var/lib/ignitekv"
	DataDir string `json:"dataDir"`

	// CompactInterval is a stored sweep interval. The engine does not read
	// it and runs no background sweep; compaction is triggered only by the
	// synchronous threshold check every Set/Remove performs.
	//
	// Default: 5h
	CompactInterval time.Duration `json:"compactInterval"`

	// CompactionThreshold is the number of reclaimable bytes that triggers
	// compaction.
	//
	// Default: 1 MiB
	CompactionThreshold int64 `json:"compactionThreshold"`

	// Lenient controls whether recovery tolerates a truncated trailing
	// record (the last write was interrupted mid-write) instead of failing.
	// Off by default: a truncated tail is treated as corruption.
	Lenient bool `json:"lenient"`
}

// OptionFunc is a function type that modifies an Options value.
type OptionFunc func(*Options)

// WithDefaultOptions applies the baseline configuration.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.CompactInterval = opts.CompactInterval
		o.CompactionThreshold = opts.CompactionThreshold
	}
}

// WithDataDir sets the directory the engine reads and writes segments in.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithCompactInterval sets CompactInterval. Any positive duration is
// accepted; the engine does not read the value.
func WithCompactInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval > 0 {
			o.CompactInterval = interval
		}
	}
}

// WithCompactionThreshold sets the reclaimable-bytes watermark that triggers
// compaction.
func WithCompactionThreshold(threshold int64) OptionFunc {
	return func(o *Options) {
		if threshold >= MinCompactionThreshold && threshold <= MaxCompactionThreshold {
			o.CompactionThreshold = threshold
		}
	}
}

// WithLenientRecovery makes recovery tolerate a truncated trailing record
// instead of failing to open.
func WithLenientRecovery(lenient bool) OptionFunc {
	return func(o *Options) {
		o.Lenient = lenient
	}
}
