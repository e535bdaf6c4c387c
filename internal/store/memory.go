// In-memory Store implementation, used for tests and zero-config runs.
// When a snapshot path is given, data is persisted to a JSON file so it
// survives restarts.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// saveDebounce coalesces bursts of writes into one disk flush.
const saveDebounce = 500 * time.Millisecond

// MemoryStore implements Store with an in-memory map.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool

	// Persistence
	snapshotPath string        // empty = no persistence
	saveMu       sync.Mutex    // guards file writes
	saveCh       chan struct{} // debounce channel
	doneCh       chan struct{} // signals the save loop to stop
	loopDone     chan struct{}
}

// NewMemoryStore creates a new in-memory store. If snapshotPath is not
// empty, existing data is loaded from it and later writes are flushed to it.
func NewMemoryStore(snapshotPath string) *MemoryStore {
	m := &MemoryStore{
		values:       make(map[string]string),
		snapshotPath: snapshotPath,
		saveCh:       make(chan struct{}, 1),
		doneCh:       make(chan struct{}),
		loopDone:     make(chan struct{}),
	}

	if m.snapshotPath != "" {
		if err := os.MkdirAll(filepath.Dir(m.snapshotPath), 0o755); err != nil {
			log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Cannot create data dir, persistence disabled")
			m.snapshotPath = ""
		}
	}

	if m.snapshotPath != "" {
		m.loadSnapshot()
		go m.saveLoop()
	} else {
		close(m.loopDone)
	}

	log.Info().Str("snapshot", m.snapshotPath).Msg("Memory store configured")
	return m
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", &ErrClosed{Backend: "memory"}
	}
	v, ok := m.values[key]
	if !ok {
		return "", &ErrNotFound{Key: key}
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return &ErrClosed{Backend: "memory"}
	}
	m.values[key] = value
	m.mu.Unlock()

	m.requestSave()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return &ErrClosed{Backend: "memory"}
	}
	delete(m.values, key)
	m.mu.Unlock()

	m.requestSave()
	return nil
}

func (m *MemoryStore) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return &ErrClosed{Backend: "memory"}
	}
	return nil
}

// Close stops the save loop and forces a final snapshot write.
// Safe to call multiple times.
func (m *MemoryStore) Close() error {
	select {
	case <-m.doneCh:
		return nil
	default:
		close(m.doneCh)
	}
	<-m.loopDone

	if m.snapshotPath != "" {
		m.saveSnapshot()
	}

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	log.Info().Msg("Memory store closed")
	return nil
}

// requestSave signals the background goroutine to persist data.
// Non-blocking: coalesces multiple rapid writes into one disk flush.
func (m *MemoryStore) requestSave() {
	if m.snapshotPath == "" {
		return
	}
	select {
	case m.saveCh <- struct{}{}:
	default:
		// Already pending
	}
}

func (m *MemoryStore) saveLoop() {
	defer close(m.loopDone)
	for {
		select {
		case <-m.doneCh:
			return
		case <-m.saveCh:
			select {
			case <-time.After(saveDebounce):
			case <-m.doneCh:
				return
			}
			m.saveSnapshot()
		}
	}
}

// saveSnapshot writes all values to disk as JSON.
func (m *MemoryStore) saveSnapshot() {
	m.mu.RLock()
	data, err := json.MarshalIndent(m.values, "", "  ")
	m.mu.RUnlock()

	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal snapshot")
		return
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	// Write to temp file then rename for atomicity
	tmp := m.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Error().Err(err).Str("path", tmp).Msg("Failed to write snapshot tmp")
		return
	}
	if err := os.Rename(tmp, m.snapshotPath); err != nil {
		log.Error().Err(err).Str("path", m.snapshotPath).Msg("Failed to rename snapshot")
		return
	}

	log.Debug().Str("path", m.snapshotPath).Msg("Snapshot saved")
}

// loadSnapshot reads data from disk on startup.
func (m *MemoryStore) loadSnapshot() {
	data, err := os.ReadFile(m.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", m.snapshotPath).Msg("No snapshot file found, starting fresh")
			return
		}
		log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Failed to read snapshot")
		return
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		log.Error().Err(err).Str("path", m.snapshotPath).Msg("Failed to parse snapshot, starting fresh")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if values != nil {
		m.values = values
	}
	log.Info().Int("keys", len(m.values)).Str("path", m.snapshotPath).Msg("Snapshot loaded")
}

var _ Store = (*MemoryStore)(nil)
