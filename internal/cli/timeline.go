package cli

import (
	"github.com/edgarogh/mdj/internal/calendar"
	"github.com/edgarogh/mdj/internal/store"
)

// Section is one titled block of a timeline listing.
type Section struct {
	Title  string
	Events []*store.Event
}

// TimelineSections splits the timeline into the today, next 7 days and later views.
// Past events are left out.
func TimelineSections(events *store.EventStore) []Section {
	return []Section{
		{Title: "Today", Events: events.TimelineToday()},
		{Title: "Next 7 days", Events: events.Timeline7Days()},
		{Title: "Later", Events: events.TimelineRest()},
	}
}

// CalendarEntries converts events for calendar.Export.
func CalendarEntries(events []*store.Event) []calendar.Entry {
	entries := make([]calendar.Entry, 0, len(events))
	for _, event := range events {
		entries = append(entries, calendar.Entry{
			CourseID:    event.CourseID(),
			CourseName:  event.CourseName(),
			Description: event.CourseDescription(),
			J:           event.J(),
			Date:        event.Date(),
			Marking:     event.Marking(),
		})
	}
	return entries
}
