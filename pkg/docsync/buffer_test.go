package docsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// manualTimer lets tests fire the debounce window by hand.
type manualTimer struct {
	mu      sync.Mutex
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	stopped := !t.stopped
	t.stopped = true
	return stopped
}

func (t *manualTimer) fire() {
	t.mu.Lock()
	stopped := t.stopped
	f := t.f
	t.mu.Unlock()
	if !stopped {
		f()
	}
}

type timerControl struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (c *timerControl) factory(d time.Duration, f func()) stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *timerControl) fireLast() {
	c.mu.Lock()
	t := c.timers[len(c.timers)-1]
	c.mu.Unlock()
	t.fire()
}

type persistRecorder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *persistRecorder) persist(ctx context.Context, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, content)
	return r.err
}

func (r *persistRecorder) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *persistRecorder) lastCall() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return ""
	}
	return r.calls[len(r.calls)-1]
}

func TestSubmitCoalescesToLastSnapshot(t *testing.T) {
	rec := &persistRecorder{}
	ctl := &timerControl{}
	buf := NewBuffer(rec.persist, withTimerFactory(ctl.factory))

	buf.Submit("v1")
	buf.Submit("v2")
	buf.Submit("v3")

	if rec.callCount() != 0 {
		t.Fatalf("persist ran before the window closed: %d calls", rec.callCount())
	}

	ctl.fireLast()

	if rec.callCount() != 1 {
		t.Fatalf("persist calls = %d, want 1", rec.callCount())
	}
	if rec.lastCall() != "v3" {
		t.Errorf("persisted %q, want %q", rec.lastCall(), "v3")
	}
	if buf.State() != StateIdle {
		t.Errorf("state after flush = %v, want StateIdle", buf.State())
	}
}

func TestFlushBypassesWindow(t *testing.T) {
	rec := &persistRecorder{}
	ctl := &timerControl{}
	buf := NewBuffer(rec.persist, withTimerFactory(ctl.factory))

	buf.Submit("v1")
	if err := buf.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if rec.callCount() != 1 || rec.lastCall() != "v1" {
		t.Fatalf("persist calls = %v, want one call with v1", rec.calls)
	}

	// The stopped timer firing later must not persist again.
	ctl.fireLast()
	if rec.callCount() != 1 {
		t.Errorf("stale timer caused a second persist")
	}
}

func TestFlushWithoutPendingIsNoop(t *testing.T) {
	rec := &persistRecorder{}
	buf := NewBuffer(rec.persist)

	if err := buf.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if rec.callCount() != 0 {
		t.Errorf("persist ran with nothing pending")
	}
}

func TestCancelDropsPending(t *testing.T) {
	rec := &persistRecorder{}
	ctl := &timerControl{}
	buf := NewBuffer(rec.persist, withTimerFactory(ctl.factory))

	buf.Submit("v1")
	buf.Cancel()

	ctl.fireLast()
	if rec.callCount() != 0 {
		t.Errorf("persist ran after Cancel")
	}
	if buf.State() != StateIdle {
		t.Errorf("state after Cancel = %v, want StateIdle", buf.State())
	}
}

func TestDirtyAfterPersistFailure(t *testing.T) {
	rec := &persistRecorder{err: errors.New("storage down")}
	ctl := &timerControl{}
	buf := NewBuffer(rec.persist, withTimerFactory(ctl.factory))

	buf.Submit("v1")
	if err := buf.Flush(); err == nil {
		t.Fatal("expected flush error")
	}

	if !buf.Dirty() {
		t.Error("buffer should report dirty after a failed flush")
	}
	if buf.LastError() == nil {
		t.Error("LastError should surface the failure")
	}

	// A successful flush clears the indicator.
	rec.mu.Lock()
	rec.err = nil
	rec.mu.Unlock()
	buf.Submit("v2")
	if err := buf.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if buf.Dirty() {
		t.Error("buffer still dirty after a successful flush")
	}
}

func TestAmendMutatesPendingSnapshot(t *testing.T) {
	rec := &persistRecorder{}
	ctl := &timerControl{}
	buf := NewBuffer(rec.persist, withTimerFactory(ctl.factory))

	buf.Submit("edited")
	got, err := buf.Amend("stored", func(content string) (string, error) {
		return content + "+mark", nil
	})
	if err != nil {
		t.Fatalf("Amend failed: %v", err)
	}
	if got != "edited+mark" {
		t.Fatalf("Amend returned %q, want the buffered edit amended", got)
	}

	if err := buf.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if rec.lastCall() != "edited+mark" {
		t.Errorf("persisted %q, the buffered edit was lost", rec.lastCall())
	}
}

func TestAmendFallsBackToStoredWhenIdle(t *testing.T) {
	rec := &persistRecorder{}
	ctl := &timerControl{}
	buf := NewBuffer(rec.persist, withTimerFactory(ctl.factory))

	got, err := buf.Amend("stored", func(content string) (string, error) {
		return content + "+mark", nil
	})
	if err != nil {
		t.Fatalf("Amend failed: %v", err)
	}
	if got != "stored+mark" {
		t.Fatalf("Amend returned %q, want %q", got, "stored+mark")
	}
	if buf.State() != StatePending {
		t.Errorf("state after Amend = %v, want StatePending", buf.State())
	}

	ctl.fireLast()
	if rec.callCount() != 1 || rec.lastCall() != "stored+mark" {
		t.Errorf("persist calls = %v, want [stored+mark]", rec.calls)
	}
}

func TestAmendErrorLeavesBufferUntouched(t *testing.T) {
	rec := &persistRecorder{}
	ctl := &timerControl{}
	buf := NewBuffer(rec.persist, withTimerFactory(ctl.factory))

	buf.Submit("edited")
	_, err := buf.Amend("stored", func(content string) (string, error) {
		return "", errors.New("bad range")
	})
	if err == nil {
		t.Fatal("expected mutation error")
	}

	if err := buf.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if rec.lastCall() != "edited" {
		t.Errorf("persisted %q, want the original pending snapshot", rec.lastCall())
	}
}

func TestSubmitAfterFlushStartsNewCycle(t *testing.T) {
	rec := &persistRecorder{}
	ctl := &timerControl{}
	buf := NewBuffer(rec.persist, withTimerFactory(ctl.factory))

	buf.Submit("v1")
	if err := buf.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	buf.Submit("v2")
	if buf.State() != StatePending {
		t.Fatalf("state = %v, want StatePending", buf.State())
	}
	ctl.fireLast()

	if rec.callCount() != 2 || rec.lastCall() != "v2" {
		t.Errorf("persist calls = %v, want [v1 v2]", rec.calls)
	}
}
