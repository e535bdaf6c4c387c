package favorites_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/30tools/ai-agents-directory/internal/favorites"
	"github.com/30tools/ai-agents-directory/internal/store"
	"github.com/30tools/ai-agents-directory/pkg/models"
)

func newTestFavorites(t *testing.T) (*favorites.Store, store.Store) {
	t.Helper()
	kv := store.NewMemoryStore("")
	t.Cleanup(func() { kv.Close() })
	return favorites.New(kv, favorites.NewHub()), kv
}

// brokenKV fails every call.
type brokenKV struct{}

var errBroken = errors.New("storage unavailable")

func (brokenKV) Get(context.Context, string) (string, error) { return "", errBroken }
func (brokenKV) Set(context.Context, string, string) error   { return errBroken }
func (brokenKV) Delete(context.Context, string) error        { return errBroken }
func (brokenKV) Ping(context.Context) error                  { return errBroken }
func (brokenKV) Close() error                                { return nil }

// failingReads wraps a working store but fails Get while failGet is set.
type failingReads struct {
	store.Store
	failGet bool
}

func (f *failingReads) Get(ctx context.Context, key string) (string, error) {
	if f.failGet {
		return "", errBroken
	}
	return f.Store.Get(ctx, key)
}

func TestToggleRoundTrip(t *testing.T) {
	fav, _ := newTestFavorites(t)
	ctx := context.Background()

	assert.True(t, fav.Toggle(ctx, "gpt-writer"))
	assert.Equal(t, []string{"gpt-writer"}, fav.List(ctx))

	assert.False(t, fav.Toggle(ctx, "gpt-writer"))
	assert.Equal(t, []string{}, fav.List(ctx))
}

func TestAddIsIdempotent(t *testing.T) {
	fav, _ := newTestFavorites(t)
	ctx := context.Background()

	fav.Add(ctx, "a")
	fav.Add(ctx, "b")
	fav.Add(ctx, "a")

	assert.Equal(t, []string{"a", "b"}, fav.List(ctx))
	assert.True(t, fav.Contains(ctx, "b"))
	assert.False(t, fav.Contains(ctx, "c"))
}

func TestRemoveAbsentKeepsList(t *testing.T) {
	fav, _ := newTestFavorites(t)
	ctx := context.Background()

	fav.Add(ctx, "a")
	fav.Remove(ctx, "missing")
	assert.Equal(t, []string{"a"}, fav.List(ctx))
}

func TestPersistedFormat(t *testing.T) {
	fav, kv := newTestFavorites(t)
	ctx := context.Background()

	fav.Add(ctx, "agent-slug-1")
	fav.Add(ctx, "agent-slug-2")

	raw, err := kv.Get(ctx, favorites.StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["agent-slug-1","agent-slug-2"]`, raw)

	fav.Clear(ctx)
	_, err = kv.Get(ctx, favorites.StorageKey)
	assert.True(t, store.IsNotFound(err))
	assert.Empty(t, fav.List(ctx))
}

func TestCorruptDataReadsAsEmpty(t *testing.T) {
	fav, kv := newTestFavorites(t)
	ctx := context.Background()

	for _, raw := range []string{"{not json", `{"a":1}`, `[1,2]`} {
		require.NoError(t, kv.Set(ctx, favorites.StorageKey, raw))
		assert.Equal(t, []string{}, fav.List(ctx), raw)
	}

	// a write after corruption starts from an empty list
	fav.Add(ctx, "x")
	assert.Equal(t, []string{"x"}, fav.List(ctx))
}

func TestDuplicatesInStorageAreCollapsed(t *testing.T) {
	fav, kv := newTestFavorites(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, favorites.StorageKey, `["a","b","a"]`))
	assert.Equal(t, []string{"a", "b"}, fav.List(ctx))
}

func TestBrokenStorageIsNoop(t *testing.T) {
	hub := favorites.NewHub()
	fav := favorites.New(brokenKV{}, hub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := hub.Subscribe(ctx)

	assert.NotPanics(t, func() {
		fav.Add(ctx, "a")
		fav.Remove(ctx, "a")
		fav.Toggle(ctx, "a")
		fav.Clear(ctx)
	})
	assert.Equal(t, []string{}, fav.List(ctx))
	assert.False(t, fav.Contains(ctx, "a"))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v after failed write", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFailedReadDoesNotOverwrite(t *testing.T) {
	mem := store.NewMemoryStore("")
	t.Cleanup(func() { mem.Close() })
	kv := &failingReads{Store: mem}
	hub := favorites.NewHub()
	fav := favorites.New(kv, hub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fav.Add(ctx, "a")
	fav.Add(ctx, "b")
	events := hub.Subscribe(ctx)

	kv.failGet = true
	fav.Add(ctx, "c")
	fav.Remove(ctx, "a")
	assert.False(t, fav.Toggle(ctx, "a"))
	assert.False(t, fav.Toggle(ctx, "d"))

	raw, err := mem.Get(ctx, favorites.StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, raw)

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v after failed read", ev)
	case <-time.After(50 * time.Millisecond):
	}

	kv.failGet = false
	assert.Equal(t, []string{"a", "b"}, fav.List(ctx))
}

func TestEventsFollowWrites(t *testing.T) {
	fav, kv := newTestFavorites(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := fav.Hub().Subscribe(ctx)

	fav.Add(ctx, "a")
	ev := receive(t, events)
	assert.Equal(t, favorites.ActionAdded, ev.Action)
	assert.Equal(t, "a", ev.Agent)
	assert.Equal(t, []string{"a"}, ev.Favorites)
	assert.NotEmpty(t, ev.ID)

	// the write is visible by the time the event arrives
	raw, err := kv.Get(ctx, favorites.StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, raw)

	fav.Add(ctx, "a") // no-op, no event
	fav.Remove(ctx, "a")
	ev = receive(t, events)
	assert.Equal(t, favorites.ActionRemoved, ev.Action)
	assert.Empty(t, ev.Favorites)

	fav.Clear(ctx)
	assert.Equal(t, favorites.ActionCleared, receive(t, events).Action)
}

func TestHubUnsubscribesOnCancel(t *testing.T) {
	hub := favorites.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	events := hub.Subscribe(ctx)
	require.Equal(t, 1, hub.Subscribers())

	cancel()
	_, open := <-events
	assert.False(t, open)
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)

	var nilHub *favorites.Hub
	assert.NotPanics(t, func() { nilHub.Publish(favorites.Event{}) })
}

func TestAgentsResolvesByNameOrURL(t *testing.T) {
	fav, _ := newTestFavorites(t)
	ctx := context.Background()
	all := []models.Agent{
		{Name: "one", URL: "https://one.example"},
		{Name: "two", URL: "https://two.example"},
		{Name: "three", URL: "https://three.example"},
	}

	assert.Empty(t, fav.Agents(ctx, all))

	fav.Add(ctx, "three")
	fav.Add(ctx, "https://one.example")
	fav.Add(ctx, "gone")

	got := fav.Agents(ctx, all)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Name)
	assert.Equal(t, "three", got[1].Name)
}

func TestMutationCounter(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_favorites_mutations_total"}, []string{"action"})
	kv := store.NewMemoryStore("")
	defer kv.Close()
	fav := favorites.New(kv, nil, favorites.WithMutationCounter(counter))
	ctx := context.Background()

	fav.Add(ctx, "a")
	fav.Add(ctx, "a")
	fav.Toggle(ctx, "a")

	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("removed")))
}

func receive(t *testing.T, ch <-chan favorites.Event) favorites.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return favorites.Event{}
	}
}
