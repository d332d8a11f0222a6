package day

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "canonical day", input: "2024-01-08"},
		{name: "leap day", input: "2024-02-29"},
		{name: "two components", input: "2024-01", wantErr: true},
		{name: "four components", input: "2024-01-08-01", wantErr: true},
		{name: "empty component", input: "2024--08", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "not a date", input: "2023-02-29", wantErr: true},
		{name: "not padded", input: "2024-1-8", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				var formatErr *FormatError
				require.ErrorAs(t, err, &formatErr)
				assert.Equal(t, tt.input, formatErr.Value)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestDay_Ordering(t *testing.T) {
	a := MustParse("2023-12-31")
	b := MustParse("2024-01-01")
	c := MustParse("2024-10-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.True(t, c.After(a))
	assert.True(t, b.BeforeOrEqual(b))
	assert.False(t, c.BeforeOrEqual(b))
	assert.True(t, b.Equal(MustParse("2024-01-01")))
	assert.Equal(t, -1, a.Compare(c))
	assert.Equal(t, 0, c.Compare(c))
	assert.Equal(t, 1, c.Compare(b))
}

func TestDay_AddDays(t *testing.T) {
	tests := []struct {
		start string
		n     int
		want  string
	}{
		{start: "2024-01-08", n: 7, want: "2024-01-15"},
		{start: "2024-12-28", n: 7, want: "2025-01-04"},
		{start: "2024-02-28", n: 1, want: "2024-02-29"},
		{start: "2024-03-01", n: -1, want: "2024-02-29"},
		{start: "2024-03-31", n: 0, want: "2024-03-31"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got := MustParse(tt.start).AddDays(tt.n)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.n, MustParse(tt.start).DaysUntil(got))
		})
	}
}

func TestDay_Conversions(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	instant := time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC)

	t.Run("instant converted to display location", func(t *testing.T) {
		assert.Equal(t, "2024-01-08", FromInstant(instant, tokyo).String())
		assert.Equal(t, "2024-01-07", FromInstant(instant, time.UTC).String())
	})

	t.Run("calendar date keeps the wall clock", func(t *testing.T) {
		assert.Equal(t, "2024-01-07", FromCalendarDate(instant).String())
	})

	t.Run("start of day", func(t *testing.T) {
		start := MustParse("2024-01-08").StartOfDay(tokyo)
		assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, tokyo), start)
		assert.Equal(t, "2024-01-08", FromInstant(start, tokyo).String())
	})
}

func TestDay_JSON(t *testing.T) {
	var record struct {
		Date Day `json:"date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-08"}`), &record))
	assert.Equal(t, "2024-01-08", record.Date.String())

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-08"}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"2024-01"}`), &record))

	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &record))
	assert.True(t, record.Date.IsZero())
}

func TestDay_YAML(t *testing.T) {
	var record struct {
		Start Day `yaml:"start"`
	}

	require.NoError(t, yaml.Unmarshal([]byte(`start: "2024-02-01"`), &record))
	assert.Equal(t, "2024-02-01", record.Start.String())

	data, err := yaml.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-02-01")

	assert.Error(t, yaml.Unmarshal([]byte(`start: "tomorrow"`), &record))
}
