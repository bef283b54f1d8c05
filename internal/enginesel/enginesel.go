// Package enginesel resolves the --engine flag shared by cmd/kvs-server and
// cmd/kvs into a concrete engine.KvStoreEngine, and enforces the sidecar
// file contract: a directory is permanently bound to whichever engine first
// created it, and reopening it with a different --engine is a fatal
// configuration error rather than silent reinterpretation.
package enginesel

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/iamNilotpal/ignitekv/internal/boltengine"
	"github.com/iamNilotpal/ignitekv/internal/engine"
	"github.com/iamNilotpal/ignitekv/pkg/errors"
	"github.com/iamNilotpal/ignitekv/pkg/filesys"
	"github.com/iamNilotpal/ignitekv/pkg/options"
)

// Name identifies which KvStoreEngine implementation backs a data
// directory.
type Name string

const (
	KVS  Name = "kvs"
	Sled Name = "sled"
)

const sidecarFile = "engine"

// Open resolves name against dataDir's sidecar file (writing it on first
// use) and returns the matching engine.KvStoreEngine.
func Open(name Name, opts options.Options, log *zap.SugaredLogger) (engine.KvStoreEngine, error) {
	if err := checkSidecar(opts.DataDir, name); err != nil {
		return nil, err
	}

	switch name {
	case KVS:
		return engine.New(&engine.Config{Options: &opts, Logger: log})
	case Sled:
		return boltengine.Open(opts.DataDir)
	default:
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "unrecognized engine name",
		).WithField("engine").WithRule("oneof=kvs,sled").WithProvided(string(name))
	}
}

// checkSidecar reads dataDir's sidecar file if present and fails if it
// names a different engine than requested; otherwise it writes the
// sidecar atomically so a concurrent reader never observes a half-written
// file.
func checkSidecar(dataDir string, name Name) error {
	path := filepath.Join(dataDir, sidecarFile)

	present, err := filesys.Exists(path)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, sidecarFile)
	}

	if present {
		existing, err := os.ReadFile(path)
		if err != nil {
			return errors.ClassifyFileOpenError(err, path, sidecarFile)
		}

		got := strings.TrimSpace(string(existing))
		if got != string(name) {
			return errors.NewValidationError(
				nil, errors.ErrorCodeInvalidInput,
				"data directory was previously opened with a different engine",
			).WithField("engine").WithRule("immutable-per-directory").WithProvided(got)
		}
		return nil
	}

	if err := filesys.CreateDir(dataDir, 0755, true); err != nil {
		return errors.ClassifyDirectoryCreationError(err, dataDir)
	}

	if err := atomic.WriteFile(path, strings.NewReader(string(name))); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write engine sidecar file").
			WithPath(path)
	}

	return nil
}
