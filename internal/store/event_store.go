package store

import (
	"context"

	"github.com/edgarogh/mdj/internal/day"
)

// upcomingWindow is the number of days covered by Timeline7Days.
const upcomingWindow = 7

// EventStore holds the timeline. Views are filters recomputed on every call.
type EventStore struct {
	root *Root

	loading  bool
	timeline []*Event
}

func (s *EventStore) IsLoading() bool {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	return s.loading
}

// Timeline returns every event in server order.
func (s *EventStore) Timeline() []*Event {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	return append([]*Event(nil), s.timeline...)
}

// FetchTimeline replaces the whole timeline with the server's.
// Local markings changed while the request was in flight are overwritten.
func (s *EventStore) FetchTimeline() {
	r := s.root
	r.mu.Lock()
	s.loading = true
	r.mu.Unlock()
	r.notify()

	r.run(func(ctx context.Context) {
		remote, err := r.gateway.FetchTimeline(ctx)

		r.mu.Lock()
		s.loading = false
		if err == nil {
			timeline := make([]*Event, 0, len(remote))
			for _, event := range remote {
				timeline = append(timeline, newEvent(r, event))
			}
			s.timeline = timeline
		}
		r.mu.Unlock()
		r.notify()

		if err != nil {
			r.reportFailure("load the timeline", err, false)
		}
	})
}

// TimelineToday is every event dated today.
func (s *EventStore) TimelineToday() []*Event {
	today := s.root.Today()
	return s.filter(func(d day.Day) bool {
		return d.Equal(today)
	})
}

// Timeline7Days is every event after today and at most seven days ahead.
func (s *EventStore) Timeline7Days() []*Event {
	today := s.root.Today()
	limit := today.AddDays(upcomingWindow)
	return s.filter(func(d day.Day) bool {
		return d.After(today) && d.BeforeOrEqual(limit)
	})
}

// TimelineRest is every event more than seven days ahead.
func (s *EventStore) TimelineRest() []*Event {
	limit := s.root.Today().AddDays(upcomingWindow)
	return s.filter(func(d day.Day) bool {
		return d.After(limit)
	})
}

// TimelinePast is every event strictly before today. None of the other
// three views contain them.
func (s *EventStore) TimelinePast() []*Event {
	today := s.root.Today()
	return s.filter(func(d day.Day) bool {
		return d.Before(today)
	})
}

func (s *EventStore) TimelineOn(target day.Day) []*Event {
	return s.filter(func(d day.Day) bool {
		return d.Equal(target)
	})
}

// Bounds returns the earliest and latest event days. ok is false on an
// empty timeline.
func (s *EventStore) Bounds() (first, last day.Day, ok bool) {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	for _, event := range s.timeline {
		if !ok || event.date.Before(first) {
			first = event.date
		}
		if !ok || event.date.After(last) {
			last = event.date
		}
		ok = true
	}
	return first, last, ok
}

// Find returns the live event of course at offset j, or nil.
func (s *EventStore) Find(courseID string, j int) *Event {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	return s.findLocked(courseID, j)
}

func (s *EventStore) findLocked(courseID string, j int) *Event {
	for _, event := range s.timeline {
		if event.courseID == courseID && event.j == j {
			return event
		}
	}
	return nil
}

func (s *EventStore) filter(keep func(day.Day) bool) []*Event {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	var events []*Event
	for _, event := range s.timeline {
		if keep(event.date) {
			events = append(events, event)
		}
	}
	return events
}
