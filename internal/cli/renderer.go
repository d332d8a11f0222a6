package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/day"
	"github.com/edgarogh/mdj/internal/store"
)

// Renderer prints the read model of the stores.
type Renderer interface {
	RenderTimeline(w io.Writer, sections []Section) error
	RenderCourses(w io.Writer, courses []*store.Course) error
	RenderArchived(w io.Writer, courses []api.Course) error
}

// NewRenderer returns the renderer for a --format value.
func NewRenderer(format string, colored bool) (Renderer, error) {
	switch format {
	case "", "text":
		return NewTextRenderer(colored), nil
	case "yaml":
		return &YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q, valid values are %q or %q", format, "text", "yaml")
	}
}

// TextRenderer writes human readable listings.
type TextRenderer struct {
	bold     *color.Color
	faint    *color.Color
	markings map[api.Marking]*color.Color
}

func NewTextRenderer(colored bool) *TextRenderer {
	renderer := &TextRenderer{
		bold:  color.New(color.Bold),
		faint: color.New(color.Faint),
		markings: map[api.Marking]*color.Color{
			api.MarkingNone:                    color.New(color.FgWhite),
			api.MarkingStarted:                 color.New(color.FgYellow),
			api.MarkingFurtherLearningRequired: color.New(color.FgRed),
			api.MarkingDone:                    color.New(color.FgGreen),
		},
	}
	if !colored {
		renderer.bold.DisableColor()
		renderer.faint.DisableColor()
		for _, c := range renderer.markings {
			c.DisableColor()
		}
	}
	return renderer
}

func (renderer *TextRenderer) marking(m api.Marking) string {
	c, ok := renderer.markings[m]
	if !ok {
		c = renderer.markings[api.MarkingNone]
	}
	return c.Sprintf("[%s]", m.Label())
}

func (renderer *TextRenderer) RenderTimeline(w io.Writer, sections []Section) error {
	for i, section := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := renderer.bold.Fprintf(w, "%s (%d)\n", section.Title, len(section.Events)); err != nil {
			return err
		}
		if len(section.Events) == 0 {
			if _, err := renderer.faint.Fprintln(w, "  nothing planned"); err != nil {
				return err
			}
			continue
		}
		for _, event := range section.Events {
			if err := renderer.renderEvent(w, event); err != nil {
				return err
			}
		}
	}
	return nil
}

func (renderer *TextRenderer) renderEvent(w io.Writer, event *store.Event) error {
	line := fmt.Sprintf("  %s  %s #%d %s", event.Date(), event.CourseName(), event.J(), renderer.marking(event.Marking()))
	if previousJ, ok := event.PreviousJ(); ok {
		line += renderer.faint.Sprintf("  after #%d %s", previousJ, event.PreviousMarking().Label())
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if description := event.CourseDescription(); description != "" {
		if _, err := renderer.faint.Fprintf(w, "      %s\n", description); err != nil {
			return err
		}
	}
	return nil
}

func (renderer *TextRenderer) RenderCourses(w io.Writer, courses []*store.Course) error {
	if len(courses) == 0 {
		_, err := renderer.faint.Fprintln(w, "no courses")
		return err
	}
	for _, course := range courses {
		id := course.ID()
		if id == "" {
			id = "(pending)"
		}
		if _, err := fmt.Fprintf(w, "%s  %s  %s..%s  %s\n", renderer.bold.Sprint(course.Name()), id, course.J0(), course.JEnd(), course.Recurrence()); err != nil {
			return err
		}
		occurrences := make([]string, 0)
		for _, occurrence := range course.Occurrences() {
			event := occurrence.Event()
			occurrences = append(occurrences, fmt.Sprintf("#%d %s", occurrence.J(), renderer.marking(event.Marking())))
		}
		if len(occurrences) > 0 {
			if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(occurrences, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func (renderer *TextRenderer) RenderArchived(w io.Writer, courses []api.Course) error {
	if len(courses) == 0 {
		_, err := renderer.faint.Fprintln(w, "no archived courses")
		return err
	}
	for _, course := range courses {
		if _, err := fmt.Fprintf(w, "%s  %s  %s..%s\n", renderer.bold.Sprint(course.Name), course.ID, course.J0, course.JEnd); err != nil {
			return err
		}
	}
	return nil
}

// YAMLRenderer writes listings as yaml documents.
type YAMLRenderer struct{}

type previousView struct {
	J       int    `yaml:"j"`
	Marking string `yaml:"marking,omitempty"`
}

type eventView struct {
	Course   string        `yaml:"course"`
	CourseID string        `yaml:"course_id"`
	J        int           `yaml:"j"`
	Date     day.Day       `yaml:"date"`
	Marking  string        `yaml:"marking,omitempty"`
	Previous *previousView `yaml:"previous,omitempty"`
}

type sectionView struct {
	Title  string      `yaml:"title"`
	Events []eventView `yaml:"events"`
}

type occurrenceView struct {
	J       int     `yaml:"j"`
	Date    day.Day `yaml:"date"`
	Marking string  `yaml:"marking,omitempty"`
}

type courseView struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	J0          day.Day          `yaml:"j_0"`
	JEnd        day.Day          `yaml:"j_end"`
	Recurrence  string           `yaml:"recurrence"`
	Occurrences []occurrenceView `yaml:"occurrences,omitempty"`
}

func toEventView(event *store.Event) eventView {
	view := eventView{
		Course:   event.CourseName(),
		CourseID: event.CourseID(),
		J:        event.J(),
		Date:     event.Date(),
		Marking:  string(event.Marking()),
	}
	if previousJ, ok := event.PreviousJ(); ok {
		view.Previous = &previousView{J: previousJ, Marking: string(event.PreviousMarking())}
	}
	return view
}

func writeYAML(w io.Writer, value interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	return encoder.Close()
}

func (YAMLRenderer) RenderTimeline(w io.Writer, sections []Section) error {
	views := make([]sectionView, 0, len(sections))
	for _, section := range sections {
		events := make([]eventView, 0, len(section.Events))
		for _, event := range section.Events {
			events = append(events, toEventView(event))
		}
		views = append(views, sectionView{Title: section.Title, Events: events})
	}
	return writeYAML(w, views)
}

func (YAMLRenderer) RenderCourses(w io.Writer, courses []*store.Course) error {
	views := make([]courseView, 0, len(courses))
	for _, course := range courses {
		view := courseView{
			ID:          course.ID(),
			Name:        course.Name(),
			Description: course.Description(),
			J0:          course.J0(),
			JEnd:        course.JEnd(),
			Recurrence:  course.Recurrence(),
		}
		for _, occurrence := range course.Occurrences() {
			event := occurrence.Event()
			view.Occurrences = append(view.Occurrences, occurrenceView{J: occurrence.J(), Date: event.Date(), Marking: string(event.Marking())})
		}
		views = append(views, view)
	}
	return writeYAML(w, views)
}

func (YAMLRenderer) RenderArchived(w io.Writer, courses []api.Course) error {
	views := make([]courseView, 0, len(courses))
	for _, course := range courses {
		views = append(views, courseView{
			ID:          course.ID,
			Name:        course.Name,
			Description: course.Description,
			J0:          course.J0,
			JEnd:        course.JEnd,
			Recurrence:  course.Recurrence,
		})
	}
	return writeYAML(w, views)
}
