package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgarogh/mdj/internal/cli"
)

func newTimelineCommand() *cobra.Command {
	var format string
	var on DayFlag
	command := &cobra.Command{
		Use:   "timeline",
		Short: "Show today's, this week's and later reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			renderer, err := cli.NewRenderer(format, a.cfg.Display.Color)
			if err != nil {
				_ = a.close()
				return err
			}
			a.root.Wait()

			sections := cli.TimelineSections(a.root.Events())
			if !on.IsZero() {
				sections = []cli.Section{{Title: on.String(), Events: a.root.Events().TimelineOn(on.Day)}}
			}
			if err := renderer.RenderTimeline(cmd.OutOrStdout(), sections); err != nil {
				_ = a.close()
				return fmt.Errorf("renderer.RenderTimeline() > %w", err)
			}
			return a.close()
		},
	}
	command.Flags().StringVar(&format, "format", "text", "Output format. Options: text, yaml")
	command.Flags().Var(&on, "on", "Only show the reviews of this day (YYYY-MM-DD)")
	return command
}
