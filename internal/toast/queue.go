// Package toast is an ordered queue of short-lived notifications.
package toast

import (
	"sync"
	"time"

	"github.com/edgarogh/mdj/internal/observer"
)

const (
	DefaultDelay = 2000 * time.Millisecond
	// EvictionDelay is how long an expired toast stays queued for its exit animation.
	EvictionDelay = 200 * time.Millisecond
)

type Severity string

const (
	SeverityNone    Severity = ""
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Timer is the part of *time.Timer the queue needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// Toast is one notification. Its fields are immutable once shown.
type Toast struct {
	Text     string
	Severity Severity
	Channel  string
	Delay    time.Duration

	queue   *Queue
	expired bool
	armed   bool
}

// Expired reports whether the toast delay has elapsed.
func (t *Toast) Expired() bool {
	t.queue.mu.Lock()
	defer t.queue.mu.Unlock()
	return t.expired
}

// StartCountdown arms expiry at Delay and eviction EvictionDelay later.
// Arming twice has no effect.
func (t *Toast) StartCountdown() {
	q := t.queue
	q.mu.Lock()
	if t.armed {
		q.mu.Unlock()
		return
	}
	t.armed = true
	q.mu.Unlock()

	q.afterFunc(t.Delay, func() {
		q.mu.Lock()
		t.expired = true
		q.mu.Unlock()
		q.observers.Notify()
	})
	q.afterFunc(t.Delay+EvictionDelay, func() {
		q.mu.Lock()
		q.remove(t)
		q.mu.Unlock()
		q.observers.Notify()
	})
}

// Queue is FIFO. Only the head can be current.
type Queue struct {
	mu        sync.Mutex
	toasts    []*Toast
	afterFunc AfterFunc
	observers observer.Set
}

type Option func(*Queue)

// WithAfterFunc replaces the timer source.
func WithAfterFunc(fn AfterFunc) Option {
	return func(q *Queue) {
		q.afterFunc = fn
	}
}

func NewQueue(options ...Option) *Queue {
	q := &Queue{
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, option := range options {
		option(q)
	}
	return q
}

// Show appends a toast and returns it. When channel is set and an unexpired
// toast already holds that channel, nothing is queued and Show returns nil.
// A zero delay means DefaultDelay.
func (q *Queue) Show(text string, severity Severity, channel string, delay time.Duration) *Toast {
	if delay <= 0 {
		delay = DefaultDelay
	}

	q.mu.Lock()
	if channel != "" {
		for _, existing := range q.toasts {
			if existing.Channel == channel && !existing.expired {
				q.mu.Unlock()
				return nil
			}
		}
	}
	t := &Toast{
		Text:     text,
		Severity: severity,
		Channel:  channel,
		Delay:    delay,
		queue:    q,
	}
	q.toasts = append(q.toasts, t)
	q.mu.Unlock()

	q.observers.Notify()
	return t
}

// Current is the head of the queue, or nil when it is empty or the head expired.
func (q *Queue) Current() *Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.toasts) == 0 || q.toasts[0].expired {
		return nil
	}
	return q.toasts[0]
}

// Len counts queued toasts, expired ones awaiting eviction included.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}

// Pending lists the unexpired toasts in queue order.
func (q *Queue) Pending() []*Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending := make([]*Toast, 0, len(q.toasts))
	for _, t := range q.toasts {
		if !t.expired {
			pending = append(pending, t)
		}
	}
	return pending
}

// Subscribe runs fn after every change to the queue.
func (q *Queue) Subscribe(fn func()) func() {
	return q.observers.Subscribe(fn)
}

func (q *Queue) remove(t *Toast) {
	for i, queued := range q.toasts {
		if queued == t {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			return
		}
	}
}
