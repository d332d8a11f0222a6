package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/day"
	mock_api "github.com/edgarogh/mdj/internal/mocks/api"
	"github.com/edgarogh/mdj/internal/store"
)

func TestNewRenderer(t *testing.T) {
	testCases := []struct {
		format  string
		want    Renderer
		wantErr bool
	}{
		{format: "", want: NewTextRenderer(false)},
		{format: "text", want: NewTextRenderer(false)},
		{format: "yaml", want: &YAMLRenderer{}},
		{format: "json", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			got, err := NewRenderer(tc.format, false)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.want, got)
		})
	}
}

func TestTextRenderer_RenderTimeline(t *testing.T) {
	root, _, _ := newTestRoot(t)

	var out bytes.Buffer
	require.NoError(t, NewTextRenderer(false).RenderTimeline(&out, TimelineSections(root.Events())))

	assert.Equal(t, `Today (1)
  2024-01-08  Algebra #0 [Done]
      Chapter 1

Next 7 days (3)
  2024-01-09  Algebra #1 [Upcoming]  after #0 Done
      Chapter 1
  2024-01-11  Algebra #3 [Upcoming]  after #1 Upcoming
      Chapter 1
  2024-01-15  Algebra #7 [Upcoming]  after #3 Upcoming
      Chapter 1

Later (1)
  2024-01-22  Algebra #14 [Upcoming]  after #7 Upcoming
      Chapter 1
`, out.String())
}

func TestTextRenderer_RenderTimelineEmptySection(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewTextRenderer(false).RenderTimeline(&out, []Section{{Title: "Today"}}))
	assert.Equal(t, "Today (0)\n  nothing planned\n", out.String())
}

func TestTextRenderer_UnknownMarking(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mock_api.NewMockGateway(ctrl)
	today := day.MustParse("2024-01-08")
	gateway.EXPECT().SetDisconnectedHandler(gomock.Any())
	gateway.EXPECT().FetchAccountInfo(gomock.Any()).Return(&api.AccountInfo{ID: "u1", Email: "ada@example.com"}, nil)
	gateway.EXPECT().FetchCourses(gomock.Any(), false).Return([]api.Course{{
		ID:          "c1",
		Name:        "Algebra",
		J0:          today,
		JEnd:        today.AddDays(30),
		Recurrence:  "0,1",
		Occurrences: []api.OccurrenceSummary{{Date: today, J: 0, Marking: "skipped"}},
	}}, nil)
	gateway.EXPECT().FetchTimeline(gomock.Any()).Return([]api.Event{
		{Course: "c1", J: 0, Date: today, Marking: "skipped"},
	}, nil)

	root, err := store.New(context.Background(), gateway,
		store.WithClock(func() time.Time { return testNow }),
		store.WithLocation(time.UTC),
	)
	require.NoError(t, err)
	root.Wait()

	renderer := NewTextRenderer(false)
	var timeline, courses bytes.Buffer
	require.NotPanics(t, func() {
		require.NoError(t, renderer.RenderTimeline(&timeline, TimelineSections(root.Events())))
		require.NoError(t, renderer.RenderCourses(&courses, root.Courses().Courses()))
	})
	assert.Contains(t, timeline.String(), "  2024-01-08  Algebra #0 [skipped]\n")
	assert.Equal(t, "Algebra  c1  2024-01-08..2024-02-07  0,1\n  #0 [skipped]\n", courses.String())
}

func TestTextRenderer_RenderCourses(t *testing.T) {
	root, _, courseID := newTestRoot(t)

	var out bytes.Buffer
	require.NoError(t, NewTextRenderer(false).RenderCourses(&out, root.Courses().Courses()))

	assert.Equal(t, "Algebra  "+courseID+"  2024-01-08..2024-03-01  0,1,3,7,14\n"+
		"  #0 [Done], #1 [Upcoming], #3 [Upcoming], #7 [Upcoming], #14 [Upcoming]\n", out.String())
}

func TestTextRenderer_RenderArchived(t *testing.T) {
	testCases := []struct {
		name    string
		courses []api.Course
		want    string
	}{
		{
			name: "no course",
			want: "no archived courses\n",
		},
		{
			name: "courses",
			courses: []api.Course{
				{ID: "c1", Name: "History", J0: day.MustParse("2023-01-01"), JEnd: day.MustParse("2023-06-01")},
			},
			want: "History  c1  2023-01-01..2023-06-01\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, NewTextRenderer(false).RenderArchived(&out, tc.courses))
			assert.Equal(t, tc.want, out.String())
		})
	}
}

func TestYAMLRenderer_RenderTimeline(t *testing.T) {
	root, _, courseID := newTestRoot(t)

	var out bytes.Buffer
	require.NoError(t, YAMLRenderer{}.RenderTimeline(&out, TimelineSections(root.Events())))

	var got []sectionView
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "Today", got[0].Title)
	assert.Equal(t, []eventView{{
		Course:   "Algebra",
		CourseID: courseID,
		J:        0,
		Date:     day.MustParse("2024-01-08"),
		Marking:  "done",
	}}, got[0].Events)
	require.Len(t, got[1].Events, 3)
	assert.Equal(t, &previousView{J: 0, Marking: "done"}, got[1].Events[0].Previous)
	assert.Len(t, got[2].Events, 1)
}

func TestYAMLRenderer_RenderCourses(t *testing.T) {
	root, _, courseID := newTestRoot(t)

	var out bytes.Buffer
	require.NoError(t, YAMLRenderer{}.RenderCourses(&out, root.Courses().Courses()))

	var got []courseView
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, courseID, got[0].ID)
	assert.Equal(t, "0,1,3,7,14", got[0].Recurrence)
	require.Len(t, got[0].Occurrences, 5)
	assert.Equal(t, occurrenceView{J: 0, Date: day.MustParse("2024-01-08"), Marking: "done"}, got[0].Occurrences[0])
}

func TestCalendarEntries(t *testing.T) {
	root, _, courseID := newTestRoot(t)

	entries := CalendarEntries(root.Events().TimelineToday())
	require.Len(t, entries, 1)
	assert.Equal(t, courseID, entries[0].CourseID)
	assert.Equal(t, "Algebra", entries[0].CourseName)
	assert.Equal(t, "Chapter 1", entries[0].Description)
	assert.Equal(t, api.MarkingDone, entries[0].Marking)
}
