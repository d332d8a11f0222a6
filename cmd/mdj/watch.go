package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/edgarogh/mdj/internal/cli"
	"github.com/edgarogh/mdj/internal/scheduler"
)

func newWatchCommand() *cobra.Command {
	var schedule string
	command := &cobra.Command{
		Use:   "watch",
		Short: "Keep reloading the timeline on a cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			detach := a.printer.Attach()
			defer detach()

			renderer := cli.NewTextRenderer(a.cfg.Display.Color)
			render := func() {
				a.root.Wait()
				if err := renderer.RenderTimeline(cmd.OutOrStdout(), cli.TimelineSections(a.root.Events())); err != nil {
					slog.Default().Error("failed to render the timeline", "error", err)
				}
			}
			render()

			refresher, err := scheduler.NewRefresher(firstNonEmpty(schedule, a.cfg.Watch.Schedule), func() {
				a.root.FetchAll()
				render()
			})
			if err != nil {
				_ = a.close()
				return fmt.Errorf("scheduler.NewRefresher() > %w", err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			refresher.Start()
			slog.Default().Debug("watching the timeline", "next", refresher.Next())
			<-ctx.Done()

			stopped := refresher.Stop()
			<-stopped.Done()
			if err := a.close(); errors.Is(err, errSessionExpired) {
				return err
			}
			return nil
		},
	}
	command.Flags().StringVar(&schedule, "schedule", "", "Cron schedule (default from config)")
	return command
}
