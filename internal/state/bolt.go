package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketState = "state"

// DefaultBoltTimeout bounds how long a BoltStore waits for another process
// to release the database file lock.
const DefaultBoltTimeout = 2 * time.Second

// BoltStore implements Store on a bbolt database file.
//
// bbolt holds an exclusive file lock for as long as a database is open, so
// BoltStore opens the file for each operation instead of keeping it open.
// That lets every editor window share one database.
type BoltStore struct {
	path    string
	timeout time.Duration
}

// NewBoltStore creates a BoltStore for the database file at path. The file is
// created on first write.
func NewBoltStore(path string, timeout time.Duration) *BoltStore {
	if timeout <= 0 {
		timeout = DefaultBoltTimeout
	}
	return &BoltStore{path: path, timeout: timeout}
}

func (s *BoltStore) open(readOnly bool) (*bolt.DB, error) {
	return bolt.Open(s.path, 0644, &bolt.Options{
		Timeout:  s.timeout,
		ReadOnly: readOnly,
	})
}

// Get returns the value stored under key.
func (s *BoltStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}

	db, err := s.open(true)
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	var value []byte
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid for the life of the transaction.
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set replaces the value stored under key.
func (s *BoltStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := s.open(false)
	if err != nil {
		return fmt.Errorf("failed to open state db: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write state %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; BoltStore holds no open handle between operations.
func (s *BoltStore) Close() error {
	return nil
}
