package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/edgarogh/mdj/internal/api"
)

// CourseStore is the in-memory list of active courses, sorted by start day.
type CourseStore struct {
	root *Root

	loading bool
	courses []*Course
}

func (s *CourseStore) IsLoading() bool {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	return s.loading
}

// Courses returns a snapshot of the list in start day order.
func (s *CourseStore) Courses() []*Course {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	return append([]*Course(nil), s.courses...)
}

// Find returns the course with id, or nil. Unsaved courses are never found.
func (s *CourseStore) Find(id string) *Course {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	return s.findLocked(id)
}

// LoadCourses fetches the active courses and merges them by id.
// With clearFirst, courses missing from the response are dropped.
func (s *CourseStore) LoadCourses(clearFirst bool) {
	r := s.root
	r.mu.Lock()
	s.loading = true
	r.mu.Unlock()
	r.notify()

	r.run(func(ctx context.Context) {
		remote, err := r.gateway.FetchCourses(ctx, false)

		r.mu.Lock()
		s.loading = false
		if err == nil {
			if clearFirst {
				s.courses = nil
			}
			for _, course := range remote {
				s.mergeLocked(course)
			}
			s.sortLocked()
		}
		r.mu.Unlock()
		r.notify()

		if err != nil {
			r.reportFailure("load the courses", err, false)
		}
	})
}

// CreateCourse inserts the course right away with an empty id and a single
// occurrence on its start day, then persists it. The id and the real
// occurrences are filled in once the server answers.
func (s *CourseStore) CreateCourse(spec CourseSpec) (*Course, error) {
	r := s.root
	if err := r.validate(spec); err != nil {
		return nil, err
	}

	course := &Course{
		root:        r,
		name:        spec.Name,
		description: spec.Description,
		j0:          spec.J0,
		jEnd:        spec.JEnd,
		recurrence:  spec.Recurrence,
		occurrences: []api.OccurrenceSummary{{Date: spec.J0, J: 0}},
	}

	r.mu.Lock()
	s.courses = append(s.courses, course)
	s.sortLocked()
	r.mu.Unlock()
	r.notify()

	input := spec.input()
	r.run(func(ctx context.Context) {
		created, err := r.gateway.CreateCourse(ctx, input)
		if err == nil && created != nil {
			r.mu.Lock()
			course.id = created.ID
			if created.Occurrences != nil {
				course.occurrences = created.Occurrences
			}
			r.mu.Unlock()
			r.notify()
		}

		r.events.FetchTimeline()
		if err != nil {
			r.reportFailure("create the course", err, true)
		}
	})
	return course, nil
}

// RestoreCourse unarchives a course, then reloads courses and timeline.
func (s *CourseStore) RestoreCourse(id string) {
	r := s.root
	r.run(func(ctx context.Context) {
		if err := r.gateway.SetArchived(ctx, id, false); err != nil {
			r.reportFailure("restore the course", err, true)
			return
		}
		s.LoadCourses(true)
		r.events.FetchTimeline()
	})
}

// FetchArchived lists archived courses. They are not merged into the store.
func (s *CourseStore) FetchArchived(ctx context.Context) ([]api.Course, error) {
	courses, err := s.root.gateway.FetchCourses(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("gateway.FetchCourses(archived) > %w", err)
	}
	return courses, nil
}

func (s *CourseStore) findLocked(id string) *Course {
	if id == "" {
		return nil
	}
	for _, course := range s.courses {
		if course.id == id {
			return course
		}
	}
	return nil
}

func (s *CourseStore) mergeLocked(remote api.Course) {
	course := s.findLocked(remote.ID)
	if course == nil {
		course = &Course{root: s.root, id: remote.ID}
		s.courses = append(s.courses, course)
	}
	course.applyLocked(remote)
}

func (s *CourseStore) removeLocked(course *Course) {
	for i, c := range s.courses {
		if c == course {
			s.courses = append(s.courses[:i], s.courses[i+1:]...)
			return
		}
	}
}

func (s *CourseStore) sortLocked() {
	sort.SliceStable(s.courses, func(i, j int) bool {
		return s.courses[i].j0.Before(s.courses[j].j0)
	})
}
