package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultDebounce is how long a page view waits before it is reported.
const DefaultDebounce = 2 * time.Second

// Submitter is the part of Service the Notifier needs.
type Submitter interface {
	SubmitURL(ctx context.Context, rawURL string) bool
}

// Notifier reports viewed pages to IndexNow. Each URL is submitted at most
// once per Notifier, after a debounce delay.
type Notifier struct {
	sub   Submitter
	delay time.Duration

	mu      sync.Mutex
	seen    map[string]struct{}
	pending map[string]*time.Timer
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotifier creates a page-view notifier. delay <= 0 uses DefaultDebounce.
func NewNotifier(sub Submitter, delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Notifier{
		sub:     sub,
		delay:   delay,
		seen:    make(map[string]struct{}),
		pending: make(map[string]*time.Timer),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// PageViewed schedules a submission for rawURL. It reports false when the
// URL was already scheduled or the notifier is closed.
func (n *Notifier) PageViewed(rawURL string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return false
	}
	if _, done := n.seen[rawURL]; done {
		return false
	}
	n.seen[rawURL] = struct{}{}

	n.wg.Add(1)
	n.pending[rawURL] = time.AfterFunc(n.delay, func() {
		defer n.wg.Done()

		n.mu.Lock()
		delete(n.pending, rawURL)
		n.mu.Unlock()

		if !n.sub.SubmitURL(n.ctx, rawURL) {
			log.Debug().Str("url", rawURL).Msg("Page view notification not accepted")
		}
	})
	return true
}

// Pending returns the number of scheduled submissions.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

// Close drops scheduled submissions and waits for in-flight ones.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	for u, t := range n.pending {
		if t.Stop() {
			n.wg.Done()
		}
		delete(n.pending, u)
	}
	n.mu.Unlock()

	n.cancel()
	n.wg.Wait()
}
