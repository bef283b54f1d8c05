package segment

import (
	"io"
	"os"
	"sync"

	"github.com/iamNilotpal/ignitekv/pkg/errors"
)

// ReaderPool keeps one open *os.File per generation so that Get and
// compaction can issue random-access reads without repeatedly opening and
// closing segment files.
type ReaderPool struct {
	dataDir string

	mu    sync.RWMutex
	files map[uint64]*os.File
}

// NewReaderPool returns an empty pool rooted at dataDir.
func NewReaderPool(dataDir string) *ReaderPool {
	return &ReaderPool{dataDir: dataDir, files: make(map[uint64]*os.File)}
}

// Open registers generation with the pool, opening its segment file
// read-only if it isn't already open. Safe to call more than once for the
// same generation.
func (p *ReaderPool) Open(generation uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.files[generation]; ok {
		return nil
	}

	path := Path(p.dataDir, generation)
	file, err := os.Open(path)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, Name(generation))
	}

	p.files[generation] = file
	return nil
}

// ReadAt reads exactly length bytes starting at offset from generation's
// segment file.
func (p *ReaderPool) ReadAt(generation uint64, offset int64, length int64) ([]byte, error) {
	p.mu.RLock()
	file, ok := p.files[generation]
	p.mu.RUnlock()

	if !ok {
		return nil, errors.NewStorageError(nil, errors.ErrorCodeIO, "no open reader for generation").
			WithSegmentID(int(generation))
	}

	buf := make([]byte, length)
	if n, err := file.ReadAt(buf, offset); err != nil && (err != io.EOF || int64(n) < length) {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read command record").
			WithSegmentID(int(generation)).
			WithOffset(int(offset))
	}

	return buf, nil
}

// Remove closes and forgets generation's reader, used once compaction has
// deleted the underlying file.
func (p *ReaderPool) Remove(generation uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	file, ok := p.files[generation]
	if !ok {
		return nil
	}

	delete(p.files, generation)
	if err := file.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close segment reader").
			WithSegmentID(int(generation))
	}
	return nil
}

// Generations reports which generations currently have an open reader.
func (p *ReaderPool) Generations() []uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]uint64, 0, len(p.files))
	for gen := range p.files {
		out = append(out, gen)
	}
	return out
}

// Close closes every open reader.
func (p *ReaderPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for gen, file := range p.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close segment reader").
				WithSegmentID(int(gen))
		}
	}
	p.files = make(map[uint64]*os.File)
	return firstErr
}
