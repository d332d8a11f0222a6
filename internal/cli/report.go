package cli

import (
	"fmt"
	"io"

	"github.com/edgarogh/mdj/internal/day"
	"github.com/edgarogh/mdj/internal/statistics"
	"github.com/edgarogh/mdj/internal/store"
)

// ReportOccurrences lists the occurrences of every loaded course.
func ReportOccurrences(courses []*store.Course) []statistics.Occurrence {
	occurrences := make([]statistics.Occurrence, 0)
	for _, course := range courses {
		for _, occurrence := range course.Occurrences() {
			event := occurrence.Event()
			occurrences = append(occurrences, statistics.Occurrence{
				CourseID: course.ID(),
				Date:     event.Date(),
				Marking:  event.Marking(),
			})
		}
	}
	return occurrences
}

// RunReport displays review statistics per month
func RunReport(w io.Writer, courses []*store.Course, today day.Day, year, month int) error {
	result := statistics.CalculateStatistics(ReportOccurrences(courses), today, year, month)

	if len(result.Periods) == 0 {
		_, err := fmt.Fprintln(w, "No reviews found for the specified period.")
		return err
	}

	lines := []string{
		"Review Statistics Report",
		"========================",
		"",
		fmt.Sprintf("%-10s  %5s  %5s  %7s  %7s  %6s  %8s", "Period", "Due", "Done", "Further", "Started", "Missed", "Courses"),
		fmt.Sprintf("%-10s  %5s  %5s  %7s  %7s  %6s  %8s", "------", "---", "----", "-------", "-------", "------", "-------"),
	}
	for _, s := range result.Periods {
		lines = append(lines, formatReportLine(s.Period, s))
	}
	lines = append(lines, "", formatReportLine("Totals:", result.Aggregate))
	lines = append(lines, fmt.Sprintf("Completion: %.0f%%", result.Aggregate.CompletionRate()*100))

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatReportLine(label string, s statistics.ReviewStatistics) string {
	return fmt.Sprintf("%-10s  %5d  %5d  %7d  %7d  %6d  %8d", label, s.Due, s.Done, s.FurtherLearning, s.Started, s.Missed, s.Courses)
}
