package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/edgarogh/mdj/internal/calendar"
	"github.com/edgarogh/mdj/internal/cli"
)

func newICalCommand() *cobra.Command {
	var output string
	var remote bool
	command := &cobra.Command{
		Use:   "ical",
		Short: "Export the timeline as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			a.root.Wait()

			path := firstNonEmpty(output, a.cfg.Calendar.Output)
			var w io.Writer = cmd.OutOrStdout()
			if path != "-" {
				file, err := os.Create(path)
				if err != nil {
					_ = a.close()
					return fmt.Errorf("os.Create(%s) > %w", path, err)
				}
				defer func() {
					_ = file.Close()
				}()
				w = file
			}

			if remote {
				feed, err := a.client.FetchCalendarFeed(cmd.Context(), a.root.AccountInfo().ID)
				if err != nil {
					_ = a.close()
					return fmt.Errorf("FetchCalendarFeed() > %w", err)
				}
				if _, err := w.Write(feed); err != nil {
					_ = a.close()
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				return a.close()
			}

			entries := cli.CalendarEntries(a.root.Events().Timeline())
			if err := calendar.Export(w, entries, calendar.Options{Name: "MdJ"}); err != nil {
				_ = a.close()
				return fmt.Errorf("calendar.Export() > %w", err)
			}
			return a.close()
		},
	}
	command.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default from config)")
	command.Flags().BoolVar(&remote, "remote", false, "Download the feed served by the backend instead")
	return command
}
