package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgarogh/mdj/internal/cli"
)

func newReportCommand() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show monthly review statistics of the active courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			a.root.Wait()
			if err := cli.RunReport(cmd.OutOrStdout(), a.root.Courses().Courses(), a.root.Today(), year, month); err != nil {
				_ = a.close()
				return fmt.Errorf("cli.RunReport() > %w", err)
			}
			return a.close()
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")

	return cmd
}
