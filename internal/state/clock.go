package state

import (
	"sort"
	"time"
)

// Cancel stops a pending callback. Calling it after the callback ran is a no-op.
type Cancel func()

// Scheduler runs callbacks after a delay on the reel's control thread.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Cancel
}

// task owns at most one pending callback for a single purpose (animation
// tick, autosave, thumbnail refresh).
type task struct {
	sched  Scheduler
	cancel Cancel
	gen    uint64
}

// replace cancels any pending callback and schedules fn.
func (t *task) replace(d time.Duration, fn func()) {
	t.stop()
	gen := t.gen
	t.cancel = t.sched.AfterFunc(d, func() {
		// A callback already queued on the control thread may still arrive
		// after stop; the generation check drops it.
		if gen != t.gen {
			return
		}
		t.cancel = nil
		t.gen++
		fn()
	})
}

// ensure schedules fn only if nothing is pending.
func (t *task) ensure(d time.Duration, fn func()) bool {
	if t.cancel != nil {
		return false
	}
	t.replace(d, fn)
	return true
}

func (t *task) stop() bool {
	t.gen++
	if t.cancel == nil {
		return false
	}
	t.cancel()
	t.cancel = nil
	return true
}

func (t *task) pending() bool { return t.cancel != nil }

// NewPostScheduler fires callbacks from timer goroutines through post, which
// must run them on the control thread (fyne.Do in the desktop app).
func NewPostScheduler(post func(func())) Scheduler {
	return postScheduler{post: post}
}

type postScheduler struct{ post func(func()) }

func (s postScheduler) AfterFunc(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, func() { s.post(fn) })
	return func() { t.Stop() }
}

// ManualClock is a virtual-time Scheduler. Nothing fires until Step or
// Advance is called. Not safe for concurrent use.
type ManualClock struct {
	now     time.Duration
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	at  time.Duration
	seq uint64
	fn  func()
}

func NewManualClock() *ManualClock { return &ManualClock{} }

// Now is the virtual time elapsed since the clock was created.
func (c *ManualClock) Now() time.Duration { return c.now }

func (c *ManualClock) Pending() int { return len(c.pending) }

func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Cancel {
	if d < 0 {
		d = 0
	}
	c.seq++
	mt := &manualTimer{at: c.now + d, seq: c.seq, fn: fn}
	c.pending = append(c.pending, mt)
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].at != c.pending[j].at {
			return c.pending[i].at < c.pending[j].at
		}
		return c.pending[i].seq < c.pending[j].seq
	})
	return func() { c.remove(mt) }
}

func (c *ManualClock) remove(mt *manualTimer) {
	for i, p := range c.pending {
		if p == mt {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// Step jumps to the earliest pending callback and runs it.
func (c *ManualClock) Step() bool {
	if len(c.pending) == 0 {
		return false
	}
	mt := c.pending[0]
	c.pending = c.pending[1:]
	if mt.at > c.now {
		c.now = mt.at
	}
	mt.fn()
	return true
}

// Advance moves time forward by d, running every callback that falls due,
// including ones scheduled by callbacks along the way.
func (c *ManualClock) Advance(d time.Duration) {
	end := c.now + d
	for len(c.pending) > 0 && c.pending[0].at <= end {
		c.Step()
	}
	c.now = end
}
