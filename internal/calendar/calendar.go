// Package calendar converts timeline events to and from iCalendar feeds.
package calendar

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/day"
)

const (
	propertyCourse  = ical.ComponentProperty("X-MDJ-COURSE")
	propertyJ       = ical.ComponentProperty("X-MDJ-J")
	propertyMarking = ical.ComponentProperty("X-MDJ-MARKING")
	propertyColor   = ical.ComponentProperty("COLOR")

	dateLayout = "20060102"
)

// namespace derives stable event UIDs from event keys.
var namespace = uuid.MustParse("8d7f0a3e-4f5b-4c1e-9a47-2b1d6f3c9e10")

// Entry is one all-day occurrence in a feed.
type Entry struct {
	CourseID    string
	CourseName  string
	Description string
	J           int
	Date        day.Day
	Marking     api.Marking
}

// UID is the same for an occurrence across exports.
func (e Entry) UID() string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s/%d", e.CourseID, e.J))).String()
}

// Summary is the event title shown by calendar apps.
func (e Entry) Summary() string {
	return fmt.Sprintf("MdJ: %s #%d", e.CourseName, e.J)
}

// Color maps the marking to the COLOR property.
func Color(marking api.Marking) string {
	switch marking {
	case api.MarkingStarted:
		return "yellow"
	case api.MarkingFurtherLearningRequired:
		return "#ffc000"
	case api.MarkingDone:
		return "#92d050"
	default:
		return "white"
	}
}

type Options struct {
	Name  string
	Stamp time.Time
}

// Export writes entries as a VCALENDAR of all-day VEVENTs.
func Export(w io.Writer, entries []Entry, options Options) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//mdj//timeline//EN")
	if options.Name != "" {
		cal.SetName(options.Name)
		cal.SetXWRCalName(options.Name)
	}
	stamp := options.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	for _, entry := range entries {
		if entry.Date.IsZero() {
			return fmt.Errorf("entry %s/%d has no date", entry.CourseID, entry.J)
		}
		start := entry.Date.StartOfDay(time.UTC)

		event := cal.AddEvent(entry.UID())
		event.SetDtStampTime(stamp.UTC())
		event.SetSummary(entry.Summary())
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		event.SetProperty(propertyColor, Color(entry.Marking))
		event.SetProperty(propertyCourse, entry.CourseID)
		event.SetProperty(propertyJ, strconv.Itoa(entry.J))
		if entry.Marking != api.MarkingNone {
			event.SetProperty(propertyMarking, string(entry.Marking))
		}
		if description := describe(entry); description != "" {
			event.SetDescription(description)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("cal.SerializeTo() > %w", err)
	}
	return nil
}

// Parse reads back a feed written by Export. Events without the mdj
// properties are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("ical.ParseCalendar() > %w", err)
	}

	entries := make([]Entry, 0)
	for _, event := range cal.Events() {
		courseProp := event.GetProperty(propertyCourse)
		jProp := event.GetProperty(propertyJ)
		startProp := event.GetProperty(ical.ComponentPropertyDtStart)
		if courseProp == nil || jProp == nil || startProp == nil {
			continue
		}

		j, err := strconv.Atoi(strings.TrimSpace(jProp.Value))
		if err != nil {
			return nil, fmt.Errorf("strconv.Atoi(%s) > %w", jProp.Value, err)
		}
		start, err := time.Parse(dateLayout, strings.TrimSpace(startProp.Value))
		if err != nil {
			return nil, fmt.Errorf("time.Parse(%s) > %w", startProp.Value, err)
		}

		entry := Entry{
			CourseID: courseProp.Value,
			J:        j,
			Date:     day.FromCalendarDate(start),
		}
		if p := event.GetProperty(propertyMarking); p != nil {
			entry.Marking = api.Marking(p.Value)
		}
		if p := event.GetProperty(ical.ComponentPropertySummary); p != nil {
			entry.CourseName = courseName(p.Value, j)
		}
		if p := event.GetProperty(ical.ComponentPropertyDescription); p != nil {
			entry.Description = stripLabel(p.Value, entry.Marking)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func describe(entry Entry) string {
	if entry.Marking == api.MarkingNone {
		return entry.Description
	}
	label := "[" + entry.Marking.Label() + "]"
	if entry.Description == "" {
		return label
	}
	return label + " " + entry.Description
}

func stripLabel(description string, marking api.Marking) string {
	if marking == api.MarkingNone {
		return description
	}
	description = strings.TrimPrefix(description, "["+marking.Label()+"]")
	return strings.TrimPrefix(description, " ")
}

func courseName(summary string, j int) string {
	name := strings.TrimPrefix(summary, "MdJ: ")
	return strings.TrimSuffix(name, fmt.Sprintf(" #%d", j))
}
