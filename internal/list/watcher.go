package list

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the settle window applied to rapid filter changes
// before a backend query goes out.
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-queries a fetch source whenever table state changes, coalescing
// rapid changes with a debounce window. Every issued request is tagged with a
// monotonically increasing sequence number and only the response of the most
// recently issued request is delivered, so a slow early response can never
// overwrite a later one.
type Watcher[T any] struct {
	fetch    func(context.Context, *Params) (T, error)
	deliver  func(T, error)
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	cancel  context.CancelFunc
	stopped bool

	// held for the duration of every delivery so Stop can wait out an
	// in-flight one
	deliverMu sync.Mutex
}

// WatcherOption configures a Watcher.
type WatcherOption[T any] func(*Watcher[T])

// WithDebounce overrides the default settle window.
func WithDebounce[T any](interval time.Duration) WatcherOption[T] {
	return func(w *Watcher[T]) {
		w.debounce = interval
	}
}

// NewWatcher creates a watcher around a fetch source. deliver is invoked with
// the result of every non-stale fetch, including failed ones.
func NewWatcher[T any](fetch func(context.Context, *Params) (T, error), deliver func(T, error), options ...WatcherOption[T]) *Watcher[T] {
	w := &Watcher[T]{
		fetch:    fetch,
		deliver:  deliver,
		debounce: DefaultDebounce,
	}
	for _, option := range options {
		option(w)
	}
	return w
}

// Update schedules a re-query for the given state after the debounce window.
// A change arriving inside the window replaces the pending query.
func (w *Watcher[T]) Update(params *Params) {
	snapshot := params.clone()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.issue(snapshot)
	})
}

// Refresh issues a query immediately, bypassing the debounce window. Used for
// page flips and explicit reloads where settling makes no sense.
func (w *Watcher[T]) Refresh(params *Params) {
	w.issue(params.clone())
}

// Stop abandons any pending or in-flight query and waits for a delivery
// already underway to finish. No delivery happens after Stop returns.
// Must not be called from inside deliver.
func (w *Watcher[T]) Stop() {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	// an in-flight delivery holds this lock until done
	w.deliverMu.Lock()
	defer w.deliverMu.Unlock()
}

func (w *Watcher[T]) issue(params *Params) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	go func() {
		result, err := w.fetch(ctx, params)
		w.deliverMu.Lock()
		defer w.deliverMu.Unlock()
		w.mu.Lock()
		stale := w.stopped || seq != w.seq
		w.mu.Unlock()
		if stale {
			return
		}
		w.deliver(result, err)
	}()
}

func (params *Params) clone() *Params {
	clone := *params
	clone.Filters = make(map[string]string, len(params.Filters))
	for field, value := range params.Filters {
		clone.Filters[field] = value
	}
	if params.Seen != nil {
		seen := *params.Seen
		clone.Seen = &seen
	}
	return &clone
}
