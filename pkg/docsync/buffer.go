package docsync

import (
	"context"
	"sync"
	"time"

	"github.com/avast/retry-go"
)

// PersistFunc commits a document snapshot to storage.
type PersistFunc func(ctx context.Context, content string) error

// State of the write buffer. Transitions:
// Idle -> Pending (Submit), Pending -> Flushing (timer or Flush),
// Pending -> Idle (Cancel), Flushing -> Idle.
type State int

const (
	StateIdle State = iota
	StatePending
	StateFlushing
)

const (
	// DefaultWindow is the debounce window for editor saves. Rapid edits
	// inside the window coalesce into the last submitted snapshot.
	DefaultWindow = time.Second

	persistAttempts = 3
	persistDelay    = 200 * time.Millisecond
)

type stopper interface {
	Stop() bool
}

// timerFactory schedules f after d. Tests inject a manual trigger.
type timerFactory func(d time.Duration, f func()) stopper

func defaultTimerFactory(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// Buffer coalesces document writes for a single note session. Every Submit
// arms (or re-arms) the debounce timer; when it fires only the last snapshot
// is persisted. Flush forces an immediate durable write, e.g. before a thread
// mark must survive a page close. Cancel drops pending state on unmount.
type Buffer struct {
	mu       sync.Mutex
	window   time.Duration
	persist  PersistFunc
	newTimer timerFactory

	state   State
	pending string
	timer   stopper
	lastErr error
	dirty   bool
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithWindow overrides the debounce window.
func WithWindow(d time.Duration) Option {
	return func(b *Buffer) { b.window = d }
}

func withTimerFactory(f timerFactory) Option {
	return func(b *Buffer) { b.newTimer = f }
}

func NewBuffer(persist PersistFunc, opts ...Option) *Buffer {
	b := &Buffer{
		window:   DefaultWindow,
		persist:  persist,
		newTimer: defaultTimerFactory,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Submit records a new snapshot and extends the debounce window. Older
// pending snapshots are discarded unseen.
func (b *Buffer) Submit(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = content
	if b.timer != nil {
		b.timer.Stop()
	}
	b.state = StatePending
	b.timer = b.newTimer(b.window, func() {
		b.Flush()
	})
}

// Flush persists the pending snapshot immediately, bypassing the debounce.
// No-op when nothing is pending.
func (b *Buffer) Flush() error {
	b.mu.Lock()
	if b.state != StatePending {
		b.mu.Unlock()
		return nil
	}
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	content := b.pending
	b.state = StateFlushing
	b.mu.Unlock()

	err := retry.Do(
		func() error {
			return b.persist(context.Background(), content)
		},
		retry.Attempts(persistAttempts),
		retry.Delay(persistDelay),
		retry.LastErrorOnly(true),
	)

	b.mu.Lock()
	b.lastErr = err
	b.dirty = err != nil
	if b.state == StateFlushing {
		b.state = StateIdle
	}
	b.mu.Unlock()
	return err
}

// Amend rewrites the latest snapshot in place and re-arms the window. The
// mutation runs against the pending snapshot when one is buffered, falling
// back to stored otherwise, so a caller stamping marks into the document
// never resurrects an older copy over in-flight edits. On a mutation error
// the buffer is left untouched.
func (b *Buffer) Amend(stored string, mutate func(content string) (string, error)) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	base := stored
	if b.state == StatePending {
		base = b.pending
	}
	next, err := mutate(base)
	if err != nil {
		return "", err
	}

	b.pending = next
	if b.timer != nil {
		b.timer.Stop()
	}
	b.state = StatePending
	b.timer = b.newTimer(b.window, func() {
		b.Flush()
	})
	return next, nil
}

// Cancel drops any pending snapshot without persisting. Used on the
// session's unmount path.
func (b *Buffer) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = ""
	b.state = StateIdle
}

// State returns the current buffer state.
func (b *Buffer) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Dirty reports whether the last flush failed, leaving unsaved content. The
// caller surfaces this as a "not saved" indicator instead of dropping the
// write silently.
func (b *Buffer) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

// LastError returns the error of the most recent flush, if any.
func (b *Buffer) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}
