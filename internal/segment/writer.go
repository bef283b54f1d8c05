package segment

import (
	"bufio"
	"io"
	"os"

	"github.com/iamNilotpal/ignitekv/pkg/errors"
)

// Writer appends command records to a single generation's segment file,
// tracking its own offset the way the reference KvWriter does so every
// caller can learn exactly where a record it just wrote begins and ends
// without a separate stat/seek call.
type Writer struct {
	generation uint64
	file       *os.File
	buf        *bufio.Writer
	offset     int64
}

// NewWriter opens (creating if necessary) the segment file for generation
// inside dataDir, appending to whatever is already there.
func NewWriter(dataDir string, generation uint64) (*Writer, error) {
	path := Path(dataDir, generation)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, Name(generation))
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		_ = file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek to end of segment file").
			WithFileName(Name(generation)).
			WithPath(path)
	}

	return &Writer{
		generation: generation,
		file:       file,
		buf:        bufio.NewWriter(file),
		offset:     offset,
	}, nil
}

// Generation reports which generation this writer is appending to.
func (w *Writer) Generation() uint64 { return w.generation }

// Offset reports the current end-of-file position: where the next record
// written through this Writer will begin.
func (w *Writer) Offset() int64 { return w.offset }

// Write appends data as a single record. It returns the offset the record
// was written at (its start, not its end) so the caller can build a
// RecordPointer from it, along with the number of bytes written.
func (w *Writer) Write(data []byte) (recordOffset int64, n int, err error) {
	recordOffset = w.offset

	n, err = w.buf.Write(data)
	w.offset += int64(n)
	if err != nil {
		return recordOffset, n, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write command record").
			WithFileName(Name(w.generation)).
			WithOffset(int(recordOffset))
	}

	return recordOffset, n, nil
}

// Flush pushes buffered writes out to the underlying file. This never
// fsyncs; a crash can still lose the last buffered-but-unflushed write.
func (w *Writer) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to flush segment writer").
			WithFileName(Name(w.generation)).
			WithOffset(int(w.offset))
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	if err := w.file.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close segment writer").
			WithFileName(Name(w.generation))
	}
	return nil
}
