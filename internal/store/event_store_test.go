package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/day"
)

func eventKeys(events []*Event) []string {
	keys := make([]string, 0, len(events))
	for _, event := range events {
		keys = append(keys, event.Key())
	}
	return keys
}

func TestEventStore_TimelineToday(t *testing.T) {
	gateway := newGateway(t)
	expectInitialLoad(gateway, []api.Course{remoteCourse("c1", "2024-01-01")}, []api.Event{
		remoteEvent("c1", 7, "2024-01-08", api.MarkingDone),
	})
	root := newTestRoot(t, gateway)
	events := root.Events()

	assert.Equal(t, []string{"c1/7"}, eventKeys(events.TimelineToday()))
	assert.Empty(t, events.Timeline7Days())
	assert.Empty(t, events.TimelineRest())
}

func TestEventStore_Views(t *testing.T) {
	gateway := newGateway(t)
	expectInitialLoad(gateway, nil, []api.Event{
		remoteEvent("c1", 0, "2024-01-01", api.MarkingDone),
		remoteEvent("c1", 7, "2024-01-08", api.MarkingNone),
		remoteEvent("c2", 1, "2024-01-09", api.MarkingNone),
		remoteEvent("c2", 7, "2024-01-15", api.MarkingNone),
		remoteEvent("c2", 8, "2024-01-16", api.MarkingNone),
		remoteEvent("c1", 30, "2024-01-31", api.MarkingNone),
	})
	root := newTestRoot(t, gateway)
	events := root.Events()

	tests := []struct {
		name string
		got  []*Event
		want []string
	}{
		{name: "past", got: events.TimelinePast(), want: []string{"c1/0"}},
		{name: "today", got: events.TimelineToday(), want: []string{"c1/7"}},
		{name: "next seven days", got: events.Timeline7Days(), want: []string{"c2/1", "c2/7"}},
		{name: "rest", got: events.TimelineRest(), want: []string{"c2/8", "c1/30"}},
		{name: "on a day", got: events.TimelineOn(day.MustParse("2024-01-15")), want: []string{"c2/7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eventKeys(tt.got))
		})
	}

	seen := map[string]int{}
	for _, bucket := range [][]*Event{events.TimelineToday(), events.Timeline7Days(), events.TimelineRest()} {
		for _, key := range eventKeys(bucket) {
			seen[key]++
		}
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "%s is in more than one bucket", key)
	}
	assert.Len(t, seen, 5)

	first, last, ok := events.Bounds()
	require.True(t, ok)
	assert.Equal(t, day.MustParse("2024-01-01"), first)
	assert.Equal(t, day.MustParse("2024-01-31"), last)

	assert.True(t, events.Find("c1", 0).IsPast())
	assert.False(t, events.Find("c1", 7).IsPast())
	assert.Nil(t, events.Find("c3", 0))
}

func TestEventStore_FetchTimelineReplaces(t *testing.T) {
	gateway := newGateway(t)
	expectInitialLoad(gateway, nil, []api.Event{
		remoteEvent("c1", 0, "2024-01-01", api.MarkingDone),
		remoteEvent("c1", 1, "2024-01-02", api.MarkingNone),
	})
	root := newTestRoot(t, gateway)

	gateway.EXPECT().FetchTimeline(gomock.Any()).Return([]api.Event{remoteEvent("c2", 0, "2024-01-10", api.MarkingNone)}, nil)
	root.Events().FetchTimeline()
	root.Wait()

	assert.Equal(t, []string{"c2/0"}, eventKeys(root.Events().Timeline()))
	_, _, ok := root.Events().Bounds()
	assert.True(t, ok)
}

func TestEvent_Mark(t *testing.T) {
	tests := []struct {
		name        string
		courses     []api.Course
		gatewayErr  error
		wantCall    bool
		wantMarking api.Marking
		wantToast   bool
	}{
		{
			name:        "success keeps the new marking",
			courses:     []api.Course{remoteCourse("c1", "2024-01-01")},
			wantCall:    true,
			wantMarking: api.MarkingDone,
		},
		{
			name:        "failure restores the previous marking",
			courses:     []api.Course{remoteCourse("c1", "2024-01-01")},
			gatewayErr:  errServer,
			wantCall:    true,
			wantMarking: api.MarkingStarted,
			wantToast:   true,
		},
		{
			name:        "expired session keeps the new marking",
			courses:     []api.Course{remoteCourse("c1", "2024-01-01")},
			gatewayErr:  api.ErrUnauthenticated,
			wantCall:    true,
			wantMarking: api.MarkingDone,
		},
		{
			name:        "unknown course is only marked locally",
			wantMarking: api.MarkingDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := newGateway(t)
			expectInitialLoad(gateway, tt.courses, []api.Event{remoteEvent("c1", 7, "2024-01-08", api.MarkingStarted)})
			root := newTestRoot(t, gateway)

			if tt.wantCall {
				gateway.EXPECT().SetEventMarking(gomock.Any(), "c1", 7, api.MarkingDone).Return(tt.gatewayErr)
			}

			event := root.Events().Find("c1", 7)
			require.NotNil(t, event)
			event.Mark(api.MarkingDone)
			assert.Equal(t, api.MarkingDone, event.Marking())

			root.Wait()
			assert.Equal(t, tt.wantMarking, event.Marking())
			if tt.wantToast {
				current := root.Toasts().Current()
				require.NotNil(t, current)
				assert.Equal(t, "Could not save the marking", current.Text)
			} else {
				assert.Equal(t, 0, root.Toasts().Len())
			}
		})
	}
}

func TestEvent_Course(t *testing.T) {
	gateway := newGateway(t)
	orphan := remoteEvent("c9", 0, "2024-01-08", api.MarkingNone)
	orphan.CourseName = "Deleted course"
	expectInitialLoad(gateway, []api.Course{remoteCourse("c1", "2024-01-01")}, []api.Event{
		remoteEvent("c1", 7, "2024-01-08", api.MarkingNone),
		orphan,
	})
	root := newTestRoot(t, gateway)

	live := root.Events().Find("c1", 7)
	require.NotNil(t, live.Course())
	assert.Equal(t, "c1", live.Course().ID())
	assert.Equal(t, "Course c1", live.CourseName())

	dangling := root.Events().Find("c9", 0)
	assert.Nil(t, dangling.Course())
	assert.Equal(t, "Deleted course", dangling.CourseName())
}

func TestEvent_PreviousMarking(t *testing.T) {
	withPrevious := func(event api.Event, j int, marking api.Marking) api.Event {
		event.PreviousJ = &j
		event.PreviousMarking = marking
		return event
	}

	gateway := newGateway(t)
	expectInitialLoad(gateway, []api.Course{remoteCourse("c1", "2024-01-01")}, []api.Event{
		remoteEvent("c1", 3, "2024-01-04", api.MarkingDone),
		withPrevious(remoteEvent("c1", 7, "2024-01-08", api.MarkingNone), 3, api.MarkingStarted),
		withPrevious(remoteEvent("c1", 14, "2024-01-15", api.MarkingNone), 7, api.MarkingFurtherLearningRequired),
		withPrevious(remoteEvent("c2", 1, "2024-01-09", api.MarkingNone), 0, api.MarkingDone),
		remoteEvent("c2", 3, "2024-01-11", api.MarkingNone),
	})
	root := newTestRoot(t, gateway)
	events := root.Events()

	tests := []struct {
		name         string
		event        *Event
		wantPrevious string
		wantMarking  api.Marking
	}{
		{name: "live previous marking wins", event: events.Find("c1", 7), wantPrevious: "c1/3", wantMarking: api.MarkingDone},
		{name: "unmarked live previous falls back", event: events.Find("c1", 14), wantPrevious: "c1/7", wantMarking: api.MarkingFurtherLearningRequired},
		{name: "previous outside the timeline", event: events.Find("c2", 1), wantMarking: api.MarkingDone},
		{name: "no previous", event: events.Find("c2", 3), wantMarking: api.MarkingNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.event)
			previous := tt.event.PreviousEvent()
			if tt.wantPrevious == "" {
				assert.Nil(t, previous)
			} else {
				require.NotNil(t, previous)
				assert.Equal(t, tt.wantPrevious, previous.Key())
			}
			assert.Equal(t, tt.wantMarking, tt.event.PreviousMarking())
		})
	}
}

func TestOccurrence_Event(t *testing.T) {
	course := remoteCourse("c1", "2024-01-01")
	course.Occurrences = []api.OccurrenceSummary{
		{Date: day.MustParse("2024-01-01"), J: 0, Marking: api.MarkingDone},
		{Date: day.MustParse("2024-01-08"), J: 7},
	}
	gateway := newGateway(t)
	expectInitialLoad(gateway, []api.Course{course}, []api.Event{
		remoteEvent("c1", 7, "2024-01-08", api.MarkingStarted),
	})
	root := newTestRoot(t, gateway)

	occurrences := root.Courses().Find("c1").Occurrences()
	require.Len(t, occurrences, 2)

	detached := occurrences[0].Event()
	assert.Equal(t, "c1/0", detached.Key())
	assert.Equal(t, api.MarkingDone, detached.Marking())
	assert.Nil(t, root.Events().Find("c1", 0))

	live := occurrences[1].Event()
	assert.Same(t, root.Events().Find("c1", 7), live)

	gateway.EXPECT().SetEventMarking(gomock.Any(), "c1", 7, api.MarkingDone).Return(nil)
	live.Mark(api.MarkingDone)
	root.Wait()
	assert.Equal(t, api.MarkingDone, occurrences[1].Event().Marking(), "occurrences resolve the live event on every access")
}

func TestEventStore_MarkThenFetchLosesLocalChange(t *testing.T) {
	gateway := newGateway(t)
	expectInitialLoad(gateway, []api.Course{remoteCourse("c1", "2024-01-01")}, []api.Event{remoteEvent("c1", 7, "2024-01-08", api.MarkingNone)})
	root := newTestRoot(t, gateway)

	release := make(chan struct{})
	gateway.EXPECT().FetchTimeline(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]api.Event, error) {
		<-release
		return []api.Event{remoteEvent("c1", 7, "2024-01-08", api.MarkingNone)}, nil
	})
	gateway.EXPECT().SetEventMarking(gomock.Any(), "c1", 7, api.MarkingStarted).Return(nil)

	root.Events().FetchTimeline()
	root.Events().Find("c1", 7).Mark(api.MarkingStarted)
	close(release)
	root.Wait()

	assert.Equal(t, api.MarkingNone, root.Events().Find("c1", 7).Marking())
}
