// Package segment manages the on-disk command log: generation-numbered
// segment files named "<generation>.log" inside the engine's data
// directory, an append-only Writer for the active generation, and a
// ReaderPool that keeps one open reader per generation for random-access
// reads during Get and compaction.
package segment

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const extension = ".log"

// Name returns the on-disk filename for a generation, e.g. "3.log". This is
// the literal naming scheme the engine's command log uses; no prefix and no
// timestamp component.
func Name(generation uint64) string {
	return strconv.FormatUint(generation, 10) + extension
}

// Path returns the full path of generation's segment file inside dataDir.
func Path(dataDir string, generation uint64) string {
	return filepath.Join(dataDir, Name(generation))
}

// ParseGeneration extracts the generation number from a segment filename.
// Filenames that are not a bare non-negative integer followed by ".log" are
// rejected (ok == false) rather than erroring, so that Discover can silently
// skip files that don't belong to the log.
func ParseGeneration(filename string) (generation uint64, ok bool) {
	if !strings.HasSuffix(filename, extension) {
		return 0, false
	}

	stem := strings.TrimSuffix(filename, extension)
	if stem == "" {
		return 0, false
	}

	n, err := strconv.ParseUint(stem, 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

// Discover lists the generations present in dataDir, sorted ascending: list
// the directory, keep entries whose stem parses as an integer, sort
// numerically rather than lexicographically (so "2.log" sorts before
// "10.log").
func Discover(dataDir string) ([]uint64, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory %q: %w", dataDir, err)
	}

	var generations []uint64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if gen, ok := ParseGeneration(entry.Name()); ok {
			generations = append(generations, gen)
		}
	}

	sort.Slice(generations, func(i, j int) bool { return generations[i] < generations[j] })
	return generations, nil
}

// Delete removes generation's segment file from dataDir.
func Delete(dataDir string, generation uint64) error {
	return os.Remove(Path(dataDir, generation))
}
