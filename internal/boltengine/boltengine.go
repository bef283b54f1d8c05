// Package boltengine adapts go.etcd.io/bbolt into the same KvStoreEngine
// contract internal/engine's log-structured KvStore satisfies, standing in
// for a "sled"-named comparison engine. No Go port of the sled crate
// exists, so this substitutes the embedded, transactional store other
// repos in the proglog family already depend on.
package boltengine

import (
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/iamNilotpal/ignitekv/pkg/errors"
)

var bucketName = []byte("ignitekv")

// BoltEngine wraps a single bbolt database file, storing every key/value
// pair in one bucket.
type BoltEngine struct {
	db *bbolt.DB
}

// Open creates or opens the bbolt database file inside dataDir.
func Open(dataDir string) (*BoltEngine, error) {
	path := filepath.Join(dataDir, "sled.db")

	db, err := bbolt.Open(path, 0644, nil)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, "sled.db")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to create bucket").
			WithPath(path)
	}

	return &BoltEngine{db: db}, nil
}

// Get returns the value for key if one exists.
func (e *BoltEngine) Get(key string) (string, bool, error) {
	var value []byte
	var found bool

	err := e.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			found = true
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, errors.NewStorageError(err, errors.ErrorCodeIO, "bolt get failed")
	}

	return string(value), found, nil
}

// Set stores value under key. Each write commits its own bbolt
// transaction, so the write is durable before Set returns.
func (e *BoltEngine) Set(key, value string) error {
	err := e.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "bolt set failed").WithDetail("key", key)
	}
	return nil
}

// Remove deletes key, returning a KeyNotFound error if it was never set —
// bbolt's Delete is a no-op on a missing key, so existence is checked first
// to match the engine's KeyNotFound contract.
func (e *BoltEngine) Remove(key string) error {
	err := e.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(key)) == nil {
			return errNotFound
		}
		return b.Delete([]byte(key))
	})
	if err == errNotFound {
		return errors.NewKeyNotFoundError(key)
	}
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "bolt remove failed").WithDetail("key", key)
	}
	return nil
}

// Close closes the underlying bbolt database.
func (e *BoltEngine) Close() error {
	if err := e.db.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close bolt database")
	}
	return nil
}

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const errNotFound = sentinelError("key not found")
