// Package compaction implements the copy-forward half of the command log's
// online compaction pass: copy every live record into a fresh generation.
// Deleting the generations that preceded it and resetting the
// reclaimable-bytes counter to zero are done by the engine once Run returns.
package compaction

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/iamNilotpal/ignitekv/internal/index"
	"github.com/iamNilotpal/ignitekv/internal/record"
	"github.com/iamNilotpal/ignitekv/internal/segment"
	"github.com/iamNilotpal/ignitekv/pkg/errors"
)

// Compactor runs the copy-forward-then-delete pass. It holds no state of
// its own between calls; all state (current generation, index, reader pool)
// is owned by the engine and passed in on each Run.
type Compactor struct {
	dataDir string
	log     *zap.SugaredLogger
}

// New builds a Compactor rooted at dataDir.
func New(dataDir string, log *zap.SugaredLogger) *Compactor {
	return &Compactor{dataDir: dataDir, log: log}
}

// Result reports the new generation number and the index entries rebuilt
// against it. The caller (engine) is responsible for swapping these into
// its own index, reader pool, and writer, and for deleting the old
// generations only after the swap succeeds.
type Result struct {
	NewGeneration  uint64
	Entries        map[string]index.RecordPointer
	OldGenerations []uint64
}

// Run copies every entry in snapshot forward into a brand-new generation
// (one past the larger of staleGeneration and the last entry of
// oldGenerations), reading each live record through pool and re-encoding it
// through a fresh Writer. It returns the new generation's entries but does
// not delete the old segment files or mutate the live index/reader pool —
// that swap is the engine's job, performed once Run has returned
// successfully, so a failure partway through Run never corrupts a running
// engine.
func (c *Compactor) Run(
	oldGenerations []uint64,
	staleGeneration uint64,
	snapshot map[string]index.RecordPointer,
	pool *segment.ReaderPool,
) (Result, error) {
	newGeneration := staleGeneration + 1
	if len(oldGenerations) > 0 {
		last := oldGenerations[len(oldGenerations)-1]
		if last >= newGeneration {
			newGeneration = last + 1
		}
	}

	c.log.Infow("starting compaction",
		"oldGenerations", oldGenerations,
		"newGeneration", newGeneration,
		"liveKeys", len(snapshot),
	)

	writer, err := segment.NewWriter(c.dataDir, newGeneration)
	if err != nil {
		return Result{}, err
	}
	defer writer.Close()

	newEntries := make(map[string]index.RecordPointer, len(snapshot))

	for key, ptr := range snapshot {
		data, err := pool.ReadAt(ptr.Generation, ptr.Offset, ptr.Length)
		if err != nil {
			return Result{}, err
		}

		cmd, err := decodeOne(data)
		if err != nil {
			return Result{}, err
		}
		if cmd.Kind() != record.KindSet {
			return Result{}, errors.NewUnexpectedCommandError(ptr.Generation, ptr.Offset, "non-Set")
		}

		recordOffset, n, err := writer.Write(data)
		if err != nil {
			return Result{}, err
		}
		if err := writer.Flush(); err != nil {
			return Result{}, err
		}

		newEntries[key] = index.RecordPointer{
			Generation: newGeneration,
			Offset:     recordOffset,
			Length:     int64(n),
		}
	}

	c.log.Infow("compaction copy-forward complete", "newGeneration", newGeneration, "liveKeys", len(newEntries))

	return Result{
		NewGeneration:  newGeneration,
		Entries:        newEntries,
		OldGenerations: oldGenerations,
	}, nil
}

func decodeOne(data []byte) (record.Command, error) {
	dec := record.NewDecoder(bytes.NewReader(data))
	return dec.Decode()
}
