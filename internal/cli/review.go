package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/store"
)

var answers = map[string]api.Marking{
	"s":    api.MarkingStarted,
	"f":    api.MarkingFurtherLearningRequired,
	"d":    api.MarkingDone,
	"n":    api.MarkingNone,
	"none": api.MarkingNone,
}

// ReviewCLI walks through events and asks for a marking for each one.
type ReviewCLI struct {
	*InteractiveCLI
	events []*store.Event
}

func NewReviewCLI(events []*store.Event, in io.Reader, out io.Writer, colored bool) *ReviewCLI {
	return &ReviewCLI{
		InteractiveCLI: newInteractiveCLI(in, out, colored),
		events:         events,
	}
}

// EventCount returns the number of events left to review.
func (r *ReviewCLI) EventCount() int {
	return len(r.events)
}

func (r *ReviewCLI) Session(ctx context.Context) error {
	if len(r.events) == 0 {
		_, _ = fmt.Fprintln(r.stdoutWriter, "Nothing left to review!")
		return errEnd
	}
	event := r.events[0]

	_, _ = r.bold.Fprintf(r.stdoutWriter, "%s #%d", event.CourseName(), event.J())
	_, _ = fmt.Fprintf(r.stdoutWriter, " (%s, currently %s)\n", event.Date(), event.Marking().Label())
	if previousJ, ok := event.PreviousJ(); ok {
		_, _ = r.faint.Fprintf(r.stdoutWriter, "  previous #%d: %s\n", previousJ, event.PreviousMarking().Label())
	}
	_, _ = fmt.Fprint(r.stdoutWriter, "[s]tarted, [f]urther learning, [d]one, [n]one, enter to skip, q to quit: ")

	line, err := r.stdinReader.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("error reading input: %w", err)
		}
		if answer == "" {
			_, _ = fmt.Fprintln(r.stdoutWriter)
			return errEnd
		}
	}

	switch answer {
	case "q", "quit":
		return errEnd
	case "":
		r.events = r.events[1:]
		return nil
	}

	marking, ok := answers[answer]
	if !ok {
		parsed, err := api.ParseMarking(answer)
		if err != nil {
			_, _ = fmt.Fprintf(r.stdoutWriter, "Unknown answer %q\n", answer)
			return nil
		}
		marking = parsed
	}
	event.Mark(marking)
	r.events = r.events[1:]
	return nil
}
