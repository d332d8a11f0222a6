package store

import (
	"context"
	"errors"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/day"
)

// ErrNotPersisted is returned when editing a course that has no id yet,
// or no longer has one after being archived.
var ErrNotPersisted = errors.New("course is not persisted")

// Course is a recurring subject. All fields are guarded by the root lock.
type Course struct {
	root *Root

	id          string
	name        string
	description string
	j0          day.Day
	jEnd        day.Day
	recurrence  string
	occurrences []api.OccurrenceSummary
}

func (c *Course) ID() string {
	c.root.mu.RLock()
	defer c.root.mu.RUnlock()
	return c.id
}

func (c *Course) Name() string {
	c.root.mu.RLock()
	defer c.root.mu.RUnlock()
	return c.name
}

func (c *Course) Description() string {
	c.root.mu.RLock()
	defer c.root.mu.RUnlock()
	return c.description
}

func (c *Course) J0() day.Day {
	c.root.mu.RLock()
	defer c.root.mu.RUnlock()
	return c.j0
}

func (c *Course) JEnd() day.Day {
	c.root.mu.RLock()
	defer c.root.mu.RUnlock()
	return c.jEnd
}

func (c *Course) Recurrence() string {
	c.root.mu.RLock()
	defer c.root.mu.RUnlock()
	return c.recurrence
}

// Occurrences resolves each summary against the live timeline on every call.
func (c *Course) Occurrences() []*Occurrence {
	c.root.mu.RLock()
	defer c.root.mu.RUnlock()

	occurrences := make([]*Occurrence, 0, len(c.occurrences))
	for _, summary := range c.occurrences {
		occurrences = append(occurrences, &Occurrence{
			root:     c.root,
			courseID: c.id,
			summary:  summary,
		})
	}
	return occurrences
}

// Update applies spec locally, persists it, then reloads courses and timeline.
func (c *Course) Update(spec CourseSpec) error {
	r := c.root
	if err := r.validate(spec); err != nil {
		return err
	}

	r.mu.Lock()
	id := c.id
	if id == "" {
		r.mu.Unlock()
		return ErrNotPersisted
	}
	c.name = spec.Name
	c.description = spec.Description
	c.j0 = spec.J0
	c.jEnd = spec.JEnd
	c.recurrence = spec.Recurrence
	r.courses.sortLocked()
	r.mu.Unlock()
	r.notify()

	input := spec.input()
	r.run(func(ctx context.Context) {
		if err := r.gateway.UpdateCourse(ctx, id, input); err != nil {
			r.reportFailure("update the course", err, true)
			return
		}
		r.courses.LoadCourses(true)
		r.events.FetchTimeline()
	})
	return nil
}

// UpdateRecurrence drops the local occurrences, since the server recomputes
// them from the new schedule, then persists and reloads.
func (c *Course) UpdateRecurrence(recurrence string, j0, jEnd day.Day) error {
	r := c.root
	if err := r.validate(recurrenceChange{J0: j0, JEnd: jEnd, Recurrence: recurrence}); err != nil {
		return err
	}

	r.mu.Lock()
	id := c.id
	if id == "" {
		r.mu.Unlock()
		return ErrNotPersisted
	}
	c.recurrence = recurrence
	c.j0 = j0
	c.jEnd = jEnd
	c.occurrences = nil
	r.courses.sortLocked()
	r.mu.Unlock()
	r.notify()

	r.run(func(ctx context.Context) {
		if err := r.gateway.UpdateCourseRecurrence(ctx, id, recurrence, j0, jEnd); err != nil {
			r.reportFailure("change the recurrence", err, true)
			return
		}
		r.courses.LoadCourses(true)
		r.events.FetchTimeline()
	})
	return nil
}

// Archive removes the course from the store and clears its id before the
// server is told. The removal is not undone if the call fails.
func (c *Course) Archive() {
	r := c.root
	r.mu.Lock()
	id := c.id
	if id == "" {
		r.mu.Unlock()
		return
	}
	r.courses.removeLocked(c)
	c.id = ""
	r.mu.Unlock()
	r.notify()

	r.run(func(ctx context.Context) {
		if err := r.gateway.SetArchived(ctx, id, true); err != nil {
			r.reportFailure("archive the course", err, true)
			return
		}
		r.events.FetchTimeline()
	})
}

// Delete removes the course from the store before the server is told.
// The removal is not undone if the call fails.
func (c *Course) Delete() {
	r := c.root
	r.mu.Lock()
	id := c.id
	if id == "" {
		r.mu.Unlock()
		return
	}
	r.courses.removeLocked(c)
	r.mu.Unlock()
	r.notify()

	r.run(func(ctx context.Context) {
		if err := r.gateway.DeleteCourse(ctx, id); err != nil {
			r.reportFailure("delete the course", err, true)
			return
		}
		r.events.FetchTimeline()
	})
}

// applyLocked takes the server's view of the course. Schedule fields the
// server left out keep their current value.
func (c *Course) applyLocked(remote api.Course) {
	c.name = remote.Name
	c.description = remote.Description
	if !remote.J0.IsZero() {
		c.j0 = remote.J0
	}
	if !remote.JEnd.IsZero() {
		c.jEnd = remote.JEnd
	}
	if remote.Recurrence != "" {
		c.recurrence = remote.Recurrence
	}
	if remote.Occurrences != nil {
		c.occurrences = remote.Occurrences
	}
}
