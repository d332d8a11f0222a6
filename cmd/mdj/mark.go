package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/cli"
	"github.com/edgarogh/mdj/internal/store"
)

// findEvent looks in the timeline first, then in the course occurrences,
// which also cover events the timeline no longer lists.
func findEvent(root *store.Root, courseID string, j int) *store.Event {
	if event := root.Events().Find(courseID, j); event != nil {
		return event
	}
	course := root.Courses().Find(courseID)
	if course == nil {
		return nil
	}
	for _, occurrence := range course.Occurrences() {
		if occurrence.J() == j {
			return occurrence.Event()
		}
	}
	return nil
}

func newMarkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <course id> <j> <marking>",
		Short: "Set the marking of an event. Markings: none, started, further_learning_required, done",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid j %q: %w", args[1], err)
			}
			marking, err := api.ParseMarking(args[2])
			if err != nil {
				return err
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			a.root.Wait()

			event := findEvent(a.root, args[0], j)
			if event == nil {
				_ = a.close()
				return fmt.Errorf("no event %s/%d", args[0], j)
			}
			event.Mark(marking)
			a.root.Wait()
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d: %s\n", event.CourseName(), event.J(), event.Marking().Label())
			return a.close()
		},
	}
}

func newReviewCommand() *cobra.Command {
	var week bool
	command := &cobra.Command{
		Use:   "review",
		Short: "Go through today's reviews and mark them one by one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			a.root.Wait()

			events := a.root.Events().TimelineToday()
			if week {
				events = append(events, a.root.Events().Timeline7Days()...)
			}
			review := cli.NewReviewCLI(events, cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.Display.Color)
			if err := review.Run(cmd.Context(), review); err != nil {
				_ = a.close()
				return err
			}
			return a.close()
		},
	}
	command.Flags().BoolVar(&week, "week", false, "Also review the next 7 days")
	return command
}
