// Package store holds the client-side model of courses and timeline events.
//
// A Root owns one lock guarding every store. Gateway calls run on background
// goroutines and apply their results under that lock. Observers registered
// with Subscribe run after the lock is released.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	ut "github.com/go-playground/universal-translator"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/day"
	"github.com/edgarogh/mdj/internal/observer"
	"github.com/edgarogh/mdj/internal/recurrence"
	"github.com/edgarogh/mdj/internal/toast"
)

const (
	sessionChannel = "session"
	loginChannel   = "login"
	failureChannel = "failure"

	sessionToastDelay = 5 * time.Second
)

type Root struct {
	ctx      context.Context
	gateway  api.Gateway
	location *time.Location
	now      func() time.Time
	toasts   *toast.Queue

	validator  *validator.Validate
	translator ut.Translator

	onSessionExpired func()
	skipInitialFetch bool

	mu      sync.RWMutex
	account api.AccountInfo
	courses *CourseStore
	events  *EventStore

	inFlight  sync.WaitGroup
	observers observer.Set
}

type Option func(*Root)

// WithLocation sets the time zone that decides where a day starts.
func WithLocation(location *time.Location) Option {
	return func(r *Root) {
		if location != nil {
			r.location = location
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Root) {
		r.now = now
	}
}

func WithToastQueue(queue *toast.Queue) Option {
	return func(r *Root) {
		r.toasts = queue
	}
}

// WithSessionExpiredHandler runs fn after the session-expired toast is shown.
func WithSessionExpiredHandler(fn func()) Option {
	return func(r *Root) {
		r.onSessionExpired = fn
	}
}

// WithoutInitialFetch keeps New from loading anything, for callers that log in first.
func WithoutInitialFetch() Option {
	return func(r *Root) {
		r.skipInitialFetch = true
	}
}

// New wires the stores to gateway and starts a first FetchAll.
// Background calls run on ctx.
func New(ctx context.Context, gateway api.Gateway, options ...Option) (*Root, error) {
	validate, trans, err := newCourseValidator()
	if err != nil {
		return nil, fmt.Errorf("newCourseValidator() > %w", err)
	}

	r := &Root{
		ctx:        ctx,
		gateway:    gateway,
		location:   time.Local,
		now:        time.Now,
		validator:  validate,
		translator: trans,
	}
	for _, option := range options {
		option(r)
	}
	if r.toasts == nil {
		r.toasts = toast.NewQueue()
	}
	r.courses = &CourseStore{root: r}
	r.events = &EventStore{root: r}

	gateway.SetDisconnectedHandler(r.disconnected)
	if !r.skipInitialFetch {
		r.FetchAll()
	}
	return r, nil
}

func (r *Root) Courses() *CourseStore {
	return r.courses
}

func (r *Root) Events() *EventStore {
	return r.events
}

func (r *Root) Toasts() *toast.Queue {
	return r.toasts
}

func (r *Root) Location() *time.Location {
	return r.location
}

// Today is the current day in the root's location.
func (r *Root) Today() day.Day {
	return day.FromInstant(r.now(), r.location)
}

func (r *Root) AccountInfo() api.AccountInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info := r.account
	info.Recurrences = make([][]int, 0, len(r.account.Recurrences))
	for _, offsets := range r.account.Recurrences {
		info.Recurrences = append(info.Recurrences, append([]int(nil), offsets...))
	}
	return info
}

// DefaultRecurrence pre-fills new course forms.
// It is the account's first template, or recurrence.Default when there is none.
func (r *Root) DefaultRecurrence() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, offsets := range r.account.Recurrences {
		formatted := recurrence.Format(offsets)
		if recurrence.Valid(formatted) {
			return formatted
		}
	}
	return recurrence.Default
}

// FetchAll reloads the account, the courses and the timeline concurrently.
func (r *Root) FetchAll() {
	r.fetchAccountInfo()
	r.courses.LoadCourses(false)
	r.events.FetchTimeline()
}

// Login opens a session. Each failure outcome is reported as a toast;
// success reloads everything.
func (r *Root) Login(ctx context.Context, credentials api.Credentials) (api.LoginOutcome, error) {
	outcome, err := r.gateway.Login(ctx, credentials)
	if err != nil {
		r.toasts.Show("Could not reach the server", toast.SeverityError, loginChannel, 0)
		return outcome, fmt.Errorf("gateway.Login() > %w", err)
	}

	switch outcome {
	case api.LoginSucceeded:
		r.FetchAll()
	case api.LoginInvalidCredentials:
		r.toasts.Show("Invalid email or password", toast.SeverityError, loginChannel, 0)
	case api.LoginInternalError:
		r.toasts.Show("The server ran into an internal error, try again later", toast.SeverityError, loginChannel, 0)
	default:
		r.toasts.Show("The server sent a malformed response", toast.SeverityError, loginChannel, 0)
	}
	return outcome, nil
}

// Logout closes the session and forgets everything loaded for it.
func (r *Root) Logout(ctx context.Context) error {
	if err := r.gateway.Logout(ctx); err != nil {
		return fmt.Errorf("gateway.Logout() > %w", err)
	}

	r.mu.Lock()
	r.account = api.AccountInfo{}
	r.courses.courses = nil
	r.events.timeline = nil
	r.mu.Unlock()
	r.notify()
	return nil
}

// Subscribe runs fn after every state change of any store.
func (r *Root) Subscribe(fn func()) func() {
	return r.observers.Subscribe(fn)
}

// Wait blocks until every background call has settled, including the
// follow-up fetches they started.
func (r *Root) Wait() {
	r.inFlight.Wait()
}

func (r *Root) notify() {
	r.observers.Notify()
}

func (r *Root) run(fn func(ctx context.Context)) {
	r.inFlight.Add(1)
	go func() {
		defer r.inFlight.Done()
		fn(r.ctx)
	}()
}

func (r *Root) fetchAccountInfo() {
	r.run(func(ctx context.Context) {
		info, err := r.gateway.FetchAccountInfo(ctx)
		if err != nil {
			r.reportFailure("load the account", err, false)
			return
		}
		if info == nil {
			return
		}

		r.mu.Lock()
		r.account = *info
		r.mu.Unlock()
		r.notify()
	})
}

func (r *Root) disconnected() {
	r.toasts.Show("Your session has expired, please log in again", toast.SeverityInfo, sessionChannel, sessionToastDelay)
	if r.onSessionExpired != nil {
		r.onSessionExpired()
	}
}

// reload is FetchAll with the course list rebuilt from the server's, so
// optimistic changes a failed mutation left behind are dropped.
func (r *Root) reload() {
	r.fetchAccountInfo()
	r.courses.LoadCourses(true)
	r.events.FetchTimeline()
}

// reportFailure surfaces a background error. Expired sessions were already
// handled by the disconnected handler. A failed mutation reloads everything.
func (r *Root) reportFailure(operation string, err error, reload bool) {
	if errors.Is(err, api.ErrUnauthenticated) {
		return
	}

	slog.Default().Error("background operation failed",
		"operation", operation,
		"error", err,
	)
	r.toasts.Show(fmt.Sprintf("Could not %s", operation), toast.SeverityError, failureChannel, 0)
	if reload {
		r.reload()
	}
}
