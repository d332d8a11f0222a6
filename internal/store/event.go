package store

import (
	"context"
	"fmt"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/day"
)

type previous struct {
	j       int
	marking api.Marking
}

// Event is one dated occurrence of a course in the timeline.
type Event struct {
	root *Root

	courseID string
	j        int
	date     day.Day
	marking  api.Marking
	previous *previous

	courseName        string
	courseDescription string
}

func newEvent(r *Root, remote api.Event) *Event {
	event := &Event{
		root:              r,
		courseID:          remote.Course,
		j:                 remote.J,
		date:              remote.Date,
		marking:           remote.Marking,
		courseName:        remote.CourseName,
		courseDescription: remote.CourseDescription,
	}
	if remote.PreviousJ != nil {
		event.previous = &previous{j: *remote.PreviousJ, marking: remote.PreviousMarking}
	}
	return event
}

// Key identifies the event as courseID/j.
func (e *Event) Key() string {
	return fmt.Sprintf("%s/%d", e.courseID, e.j)
}

func (e *Event) CourseID() string {
	return e.courseID
}

func (e *Event) J() int {
	return e.j
}

func (e *Event) Date() day.Day {
	return e.date
}

func (e *Event) Marking() api.Marking {
	e.root.mu.RLock()
	defer e.root.mu.RUnlock()
	return e.marking
}

// Course looks the course up by id. It is nil once the course was archived
// or deleted.
func (e *Event) Course() *Course {
	e.root.mu.RLock()
	defer e.root.mu.RUnlock()
	return e.root.courses.findLocked(e.courseID)
}

// CourseName prefers the live course and falls back to the name the
// server sent with the event.
func (e *Event) CourseName() string {
	e.root.mu.RLock()
	defer e.root.mu.RUnlock()
	if course := e.root.courses.findLocked(e.courseID); course != nil {
		return course.name
	}
	return e.courseName
}

func (e *Event) CourseDescription() string {
	e.root.mu.RLock()
	defer e.root.mu.RUnlock()
	if course := e.root.courses.findLocked(e.courseID); course != nil {
		return course.description
	}
	return e.courseDescription
}

func (e *Event) IsPast() bool {
	return e.date.Before(e.root.Today())
}

// PreviousJ is the offset scheduled before this one, if any.
func (e *Event) PreviousJ() (int, bool) {
	if e.previous == nil {
		return 0, false
	}
	return e.previous.j, true
}

// PreviousEvent is the live event for the previous offset, or nil.
func (e *Event) PreviousEvent() *Event {
	e.root.mu.RLock()
	defer e.root.mu.RUnlock()
	return e.previousEventLocked()
}

// PreviousMarking is the live previous event's marking when it has one,
// else the marking the server reported with this event.
func (e *Event) PreviousMarking() api.Marking {
	e.root.mu.RLock()
	defer e.root.mu.RUnlock()
	if event := e.previousEventLocked(); event != nil && event.marking != api.MarkingNone {
		return event.marking
	}
	if e.previous != nil {
		return e.previous.marking
	}
	return api.MarkingNone
}

// Mark sets the marking right away and persists it when the course is
// known. A failed call restores the previous marking.
func (e *Event) Mark(marking api.Marking) {
	r := e.root
	r.mu.Lock()
	last := e.marking
	e.marking = marking
	course := r.courses.findLocked(e.courseID)
	r.mu.Unlock()
	r.notify()

	if course == nil {
		return
	}

	r.run(func(ctx context.Context) {
		err := r.gateway.SetEventMarking(ctx, e.courseID, e.j, marking)
		if err == nil || api.IsUnauthenticated(err) {
			return
		}

		r.mu.Lock()
		e.marking = last
		r.mu.Unlock()
		r.notify()
		r.reportFailure("save the marking", err, false)
	})
}

func (e *Event) previousEventLocked() *Event {
	if e.previous == nil {
		return nil
	}
	return e.root.events.findLocked(e.courseID, e.previous.j)
}
