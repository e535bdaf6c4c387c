package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const boltBucketName = "local_storage"

// BoltStore implements Store on a single bbolt bucket.
type BoltStore struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
}

// OpenBoltStore opens (or creates) the bbolt file at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("bolt path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure bolt dir: %w", err)
	}
	db, err := bolt.Open(trimmed, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketName))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	log.Info().Str("path", trimmed).Msg("Bolt store opened")
	return &BoltStore{db: db, path: trimmed}, nil
}

func (s *BoltStore) Get(_ context.Context, key string) (string, error) {
	var (
		value string
		found bool
	)
	err := s.view(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(boltBucketName)).Get([]byte(key))
		if raw != nil {
			value, found = string(raw), true
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", &ErrNotFound{Key: key}
	}
	return value, nil
}

func (s *BoltStore) Set(_ context.Context, key, value string) error {
	return s.update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(boltBucketName)).Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
		return nil
	})
}

func (s *BoltStore) Delete(_ context.Context, key string) error {
	return s.update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(boltBucketName)).Delete([]byte(key)); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		return nil
	})
}

func (s *BoltStore) Ping(_ context.Context) error {
	return s.view(func(*bolt.Tx) error { return nil })
}

func (s *BoltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Path returns the database file location.
func (s *BoltStore) Path() string { return s.path }

func (s *BoltStore) view(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &ErrClosed{Backend: "bolt"}
	}
	return s.db.View(fn)
}

func (s *BoltStore) update(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &ErrClosed{Backend: "bolt"}
	}
	return s.db.Update(fn)
}

var _ Store = (*BoltStore)(nil)
