// Package day provides a calendar-day value type that carries no time of day.
package day

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const layout = "2006-01-02"

// Day is a calendar date in its canonical YYYY-MM-DD form.
// The form is zero-padded and big-endian, so string order is chronological order.
// The zero Day is unset.
type Day struct {
	value string
}

// FormatError is returned when a string is not a YYYY-MM-DD day.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid day %q: %s", e.Value, e.Reason)
}

// Parse validates s and returns it as a Day.
func Parse(s string) (Day, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Day{}, &FormatError{Value: s, Reason: "expected three dash-separated components"}
	}
	for _, part := range parts {
		if part == "" {
			return Day{}, &FormatError{Value: s, Reason: "empty component"}
		}
	}
	if _, err := time.Parse(layout, s); err != nil {
		return Day{}, &FormatError{Value: s, Reason: "not a calendar date in YYYY-MM-DD form"}
	}
	return Day{value: s}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromCalendarDate takes the wall-clock date of t in t's own location.
func FromCalendarDate(t time.Time) Day {
	return Day{value: t.Format(layout)}
}

// FromInstant converts t to loc and takes the date there.
// A nil loc means time.Local.
func FromInstant(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return FromCalendarDate(t.In(loc))
}

// Today is the current date in loc.
func Today(loc *time.Location) Day {
	return FromInstant(time.Now(), loc)
}

func (d Day) String() string {
	return d.value
}

func (d Day) IsZero() bool {
	return d.value == ""
}

func (d Day) Equal(other Day) bool {
	return d.value == other.value
}

func (d Day) Before(other Day) bool {
	return d.value < other.value
}

func (d Day) BeforeOrEqual(other Day) bool {
	return d.value <= other.value
}

func (d Day) After(other Day) bool {
	return d.value > other.value
}

// Compare returns -1, 0 or 1.
func (d Day) Compare(other Day) int {
	return strings.Compare(d.value, other.value)
}

// StartOfDay returns midnight of d in loc. A nil loc means time.Local.
func (d Day) StartOfDay(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(layout, d.value, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays moves d by n calendar days.
func (d Day) AddDays(n int) Day {
	if d.IsZero() {
		return d
	}
	return FromCalendarDate(d.StartOfDay(time.UTC).AddDate(0, 0, n))
}

// DaysUntil counts the calendar days from d to other.
func (d Day) DaysUntil(other Day) int {
	return int(other.StartOfDay(time.UTC).Sub(d.StartOfDay(time.UTC)).Hours() / 24)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value)
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Day) MarshalYAML() (interface{}, error) {
	return d.value, nil
}

func (d *Day) UnmarshalYAML(value *yaml.Node) error {
	if value.Value == "" {
		*d = Day{}
		return nil
	}
	parsed, err := Parse(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
