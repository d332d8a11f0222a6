package api

import "fmt"

// Marking is the completion state a user puts on an event.
type Marking string

const (
	MarkingNone                    Marking = ""
	MarkingStarted                 Marking = "started"
	MarkingFurtherLearningRequired Marking = "further_learning_required"
	MarkingDone                    Marking = "done"
)

// Markings lists every marking in menu order.
var Markings = []Marking{MarkingNone, MarkingStarted, MarkingFurtherLearningRequired, MarkingDone}

// ParseMarking accepts the wire values, plus "none" for the empty marking.
func ParseMarking(s string) (Marking, error) {
	if s == "none" {
		return MarkingNone, nil
	}
	for _, m := range Markings {
		if string(m) == s {
			return m, nil
		}
	}
	return MarkingNone, fmt.Errorf("unknown marking %q", s)
}

// Label is the human name of the marking.
func (m Marking) Label() string {
	switch m {
	case MarkingStarted:
		return "Started"
	case MarkingFurtherLearningRequired:
		return "Needs further review"
	case MarkingDone:
		return "Done"
	case MarkingNone:
		return "Upcoming"
	default:
		return string(m)
	}
}
