// Package favorites persists the ordered list of favorited agents in the
// local key-value store and announces every change on a Hub.
//
// Storage problems never reach the caller. A failed read yields an empty
// list for queries and turns writes into no-ops. A failed write leaves the
// previous state in place. Both are logged.
package favorites

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/30tools/ai-agents-directory/internal/store"
	"github.com/30tools/ai-agents-directory/pkg/models"
)

// StorageKey is the key the favorites list is stored under.
const StorageKey = "ai-agents-favorites"

// Action names a kind of change.
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
	ActionCleared Action = "cleared"
)

// Event is published after a write has been persisted.
type Event struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Agent     string    `json:"agent,omitempty"`
	Favorites []string  `json:"favorites"`
	At        time.Time `json:"at"`
}

// Store reads and writes the favorites list.
type Store struct {
	kv  store.Store
	hub *Hub

	// mu serializes read-modify-write cycles on the list.
	mu sync.Mutex

	mutations *prometheus.CounterVec
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMutationCounter counts persisted writes by action label.
func WithMutationCounter(c *prometheus.CounterVec) Option {
	return func(s *Store) { s.mutations = c }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a Store backed by kv. hub may be nil.
func New(kv store.Store, hub *Hub, opts ...Option) *Store {
	s := &Store{kv: kv, hub: hub, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Hub returns the hub events are published on.
func (s *Store) Hub() *Hub { return s.hub }

// List returns the favorited identifiers in insertion order.
func (s *Store) List(ctx context.Context) []string {
	list, _ := s.read(ctx)
	return list
}

// Contains reports whether id is favorited.
func (s *Store) Contains(ctx context.Context, id string) bool {
	list, _ := s.read(ctx)
	return slices.Contains(list, id)
}

// Add appends id when it is not already present.
func (s *Store) Add(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list, ok := s.read(ctx); ok {
		s.add(ctx, list, id)
	}
}

// Remove drops id. The list is rewritten even when id was absent.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list, ok := s.read(ctx); ok {
		s.remove(ctx, list, id)
	}
}

// Toggle adds id if absent and removes it if present. It reports whether
// id is favorited afterwards. When the list cannot be read nothing is
// written and false is returned.
func (s *Store) Toggle(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.read(ctx)
	if !ok {
		return false
	}
	if slices.Contains(list, id) {
		s.remove(ctx, list, id)
	} else {
		s.add(ctx, list, id)
	}
	after, _ := s.read(ctx)
	return slices.Contains(after, id)
}

// Clear deletes the stored list.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		log.Error().Err(err).Msg("Failed to clear favorites")
		return
	}
	s.emit(ActionCleared, "", []string{})
}

// Agents resolves the favorites against all, keeping dataset order. An
// agent matches when either its name or its url is favorited.
func (s *Store) Agents(ctx context.Context, all []models.Agent) []models.Agent {
	ids, _ := s.read(ctx)
	out := make([]models.Agent, 0, len(ids))
	if len(ids) == 0 {
		return out
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for _, a := range all {
		_, byName := set[a.Name]
		_, byURL := set[a.URL]
		if byName || byURL {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) add(ctx context.Context, list []string, id string) {
	if id == "" {
		return
	}
	if slices.Contains(list, id) {
		return
	}
	list = append(list, id)
	if s.write(ctx, list) {
		s.emit(ActionAdded, id, list)
	}
}

func (s *Store) remove(ctx context.Context, list []string, id string) {
	list = slices.DeleteFunc(list, func(v string) bool { return v == id })
	if s.write(ctx, list) {
		s.emit(ActionRemoved, id, list)
	}
}

// read loads the stored list. A missing key or corrupt data reads as an
// empty list; ok is false only when the backend itself failed.
func (s *Store) read(ctx context.Context) (list []string, ok bool) {
	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if store.IsNotFound(err) {
			return []string{}, true
		}
		log.Warn().Err(err).Msg("Failed to read favorites")
		return []string{}, false
	}

	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Warn().Err(err).Msg("Stored favorites are corrupt, ignoring")
		return []string{}, true
	}

	// Keep the first occurrence of each id.
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, id := range list {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, true
}

func (s *Store) write(ctx context.Context, list []string) bool {
	data, err := json.Marshal(list)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode favorites")
		return false
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		log.Error().Err(err).Msg("Failed to save favorites")
		return false
	}
	return true
}

func (s *Store) emit(action Action, id string, list []string) {
	if s.mutations != nil {
		s.mutations.WithLabelValues(string(action)).Inc()
	}
	log.Debug().Str("action", string(action)).Str("agent", id).Int("count", len(list)).Msg("Favorites changed")
	s.hub.Publish(Event{
		ID:        uuid.NewString(),
		Action:    action,
		Agent:     id,
		Favorites: slices.Clone(list),
		At:        s.now().UTC(),
	})
}
