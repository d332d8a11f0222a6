// Package recurrence handles the J-method schedule: an ascending list of day
// offsets from a course's start day, encoded as "0,1,3,7".
package recurrence

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/edgarogh/mdj/internal/day"
)

// Default is used when the account has no recurrence template.
const Default = "0,1,3,7,14,21,30,45,60,75,90,95,110"

var (
	ErrEmpty        = errors.New("recurrence is empty")
	ErrNotAscending = errors.New("recurrence offsets must be strictly ascending")
	ErrMissingZero  = errors.New("recurrence must start at offset 0")

	pattern = regexp.MustCompile(`^0(?:,\d{1,6})+$`)
)

// Valid reports whether s is an acceptable recurrence for a course form.
func Valid(s string) bool {
	if !pattern.MatchString(s) {
		return false
	}
	_, err := Parse(s)
	return err == nil
}

// Parse decodes s into its offsets.
func Parse(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmpty
	}

	parts := strings.Split(s, ",")
	offsets := make([]int, 0, len(parts))
	last := -1
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("strconv.Atoi(%q) > %w", part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative offset %d", n)
		}
		if n <= last {
			return nil, ErrNotAscending
		}
		last = n
		offsets = append(offsets, n)
	}
	if offsets[0] != 0 {
		return nil, ErrMissingZero
	}
	return offsets, nil
}

// ParseOrFirst decodes s, falling back to a single offset 0 when s is invalid.
// This matches how the backend treats malformed schedules.
func ParseOrFirst(s string) []int {
	offsets, err := Parse(s)
	if err != nil {
		return []int{0}
	}
	return offsets
}

// Format encodes offsets.
func Format(offsets []int) string {
	parts := make([]string, len(offsets))
	for i, o := range offsets {
		parts[i] = strconv.Itoa(o)
	}
	return strings.Join(parts, ",")
}

// Date is one planned occurrence.
type Date struct {
	J    int
	Date day.Day
}

// Dates expands offsets from j0, stopping at the first date after jEnd.
func Dates(offsets []int, j0, jEnd day.Day) []Date {
	dates := make([]Date, 0, len(offsets))
	for _, o := range offsets {
		d := j0.AddDays(o)
		if d.After(jEnd) {
			break
		}
		dates = append(dates, Date{J: o, Date: d})
	}
	return dates
}

// Previous returns the offset scheduled before j, or false for the first one.
func Previous(offsets []int, j int) (int, bool) {
	for i, o := range offsets {
		if o == j {
			if i == 0 {
				return 0, false
			}
			return offsets[i-1], true
		}
	}
	return 0, false
}
