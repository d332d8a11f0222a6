package statistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/day"
)

// Occurrence is one scheduled review with its current marking.
type Occurrence struct {
	CourseID string
	Date     day.Day
	Marking  api.Marking
}

// ReviewStatistics holds statistics for one month
type ReviewStatistics struct {
	Period          string // "2025-01"
	Due             int    // Reviews scheduled on or before today
	Done            int
	FurtherLearning int
	Started         int
	Missed          int // Unmarked reviews before today
	Courses         int // Courses with at least one due review
}

// CompletionRate is the share of due reviews marked done.
func (s ReviewStatistics) CompletionRate() float64 {
	if s.Due == 0 {
		return 0
	}
	return float64(s.Done) / float64(s.Due)
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	Periods   []ReviewStatistics
	Aggregate ReviewStatistics
}

type periodData struct {
	stats   ReviewStatistics
	courses map[string]struct{}
}

// CalculateStatistics counts due reviews per month up to today.
// It accepts optional year and month filters (0 means no filter).
// The aggregate counts each course once across periods.
func CalculateStatistics(occurrences []Occurrence, today day.Day, year, month int) StatisticsResult {
	stats := make(map[string]*periodData)
	aggregate := &periodData{courses: make(map[string]struct{})}

	for _, occurrence := range occurrences {
		if occurrence.Date.IsZero() || occurrence.Date.After(today) {
			continue
		}
		start := occurrence.Date.StartOfDay(time.UTC)
		occurrenceYear, occurrenceMonth := start.Year(), int(start.Month())
		if !matchesFilter(occurrenceYear, occurrenceMonth, year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", occurrenceYear, occurrenceMonth)
		if stats[period] == nil {
			stats[period] = &periodData{
				stats:   ReviewStatistics{Period: period},
				courses: make(map[string]struct{}),
			}
		}
		count(stats[period], occurrence, today)
		count(aggregate, occurrence, today)
	}

	periods := make([]ReviewStatistics, 0, len(stats))
	for _, data := range stats {
		data.stats.Courses = len(data.courses)
		periods = append(periods, data.stats)
	}

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	aggregate.stats.Courses = len(aggregate.courses)
	return StatisticsResult{
		Periods:   periods,
		Aggregate: aggregate.stats,
	}
}

func count(data *periodData, occurrence Occurrence, today day.Day) {
	data.stats.Due++
	data.courses[occurrence.CourseID] = struct{}{}
	switch occurrence.Marking {
	case api.MarkingDone:
		data.stats.Done++
	case api.MarkingFurtherLearningRequired:
		data.stats.FurtherLearning++
	case api.MarkingStarted:
		data.stats.Started++
	default:
		if occurrence.Date.Before(today) {
			data.stats.Missed++
		}
	}
}

func matchesFilter(occurrenceYear, occurrenceMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if occurrenceYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return occurrenceMonth == filterMonth
}
