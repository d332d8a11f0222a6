package main

import (
	"github.com/spf13/pflag"

	"github.com/edgarogh/mdj/internal/day"
)

// DayFlag is a YYYY-MM-DD flag. The zero value means the flag was not set.
type DayFlag struct {
	day.Day
}

// Set implements pflag.Value.
func (f *DayFlag) Set(v string) error {
	parsed, err := day.Parse(v)
	if err != nil {
		return err
	}
	f.Day = parsed
	return nil
}

// String implements pflag.Value.
func (f *DayFlag) String() string {
	if f == nil {
		return ""
	}
	return f.Day.String()
}

// Type implements pflag.Value.
func (f *DayFlag) Type() string {
	return "day"
}

var (
	_ pflag.Value = (*DayFlag)(nil)
)

// or returns the flag value, or fallback when it was not set.
func (f *DayFlag) or(fallback day.Day) day.Day {
	if f.IsZero() {
		return fallback
	}
	return f.Day
}
