package store

import "github.com/edgarogh/mdj/internal/api"

// Occurrence ties a course's occurrence summary to its timeline event.
type Occurrence struct {
	root     *Root
	courseID string
	summary  api.OccurrenceSummary
}

func (o *Occurrence) J() int {
	return o.summary.J
}

// Event resolves the live event on every call. When the timeline has none,
// it returns a detached event built from the summary.
func (o *Occurrence) Event() *Event {
	o.root.mu.RLock()
	defer o.root.mu.RUnlock()
	if event := o.root.events.findLocked(o.courseID, o.summary.J); event != nil {
		return event
	}
	return &Event{
		root:     o.root,
		courseID: o.courseID,
		j:        o.summary.J,
		date:     o.summary.Date,
		marking:  o.summary.Marking,
	}
}
