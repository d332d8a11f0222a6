package apitest

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/calendar"
	"github.com/edgarogh/mdj/internal/day"
)

func newLoggedInClient(t *testing.T, today day.Day) (*Server, *api.Client, string) {
	t.Helper()

	server := NewServer(today)
	t.Cleanup(server.Close)
	accountID, err := server.AddAccount("ada@example.com", "secret")
	require.NoError(t, err)

	client, err := api.NewClient(server.URL, api.Options{RetryAttempts: 1})
	require.NoError(t, err)
	outcome, err := client.Login(context.Background(), api.Credentials{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, api.LoginSucceeded, outcome)
	return server, client, accountID
}

func TestServer_Login(t *testing.T) {
	server := NewServer(day.MustParse("2024-01-08"))
	defer server.Close()
	_, err := server.AddAccount("ada@example.com", "secret")
	require.NoError(t, err)

	testCases := []struct {
		name        string
		credentials api.Credentials
		want        api.LoginOutcome
	}{
		{
			name:        "valid credentials",
			credentials: api.Credentials{Email: "ada@example.com", Password: "secret"},
			want:        api.LoginSucceeded,
		},
		{
			name:        "wrong password",
			credentials: api.Credentials{Email: "ada@example.com", Password: "nope"},
			want:        api.LoginInvalidCredentials,
		},
		{
			name:        "unknown email",
			credentials: api.Credentials{Email: "bob@example.com", Password: "secret"},
			want:        api.LoginInternalError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := api.NewClient(server.URL, api.Options{})
			require.NoError(t, err)

			got, err := client.Login(context.Background(), tc.credentials)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestServer_CourseLifecycle(t *testing.T) {
	ctx := context.Background()
	server, client, _ := newLoggedInClient(t, day.MustParse("2024-01-08"))

	created, err := client.CreateCourse(ctx, api.CourseInput{
		Name:       "Algebra",
		J0:         day.MustParse("2024-01-08"),
		JEnd:       day.MustParse("2024-02-08"),
		Recurrence: "0,1,3,7",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	require.Len(t, created.Occurrences, 4)
	assert.Equal(t, day.MustParse("2024-01-15"), created.Occurrences[3].Date)

	timeline, err := client.FetchTimeline(ctx)
	require.NoError(t, err)
	require.Len(t, timeline, 4)
	assert.Equal(t, "Algebra", timeline[0].CourseName)
	assert.Nil(t, timeline[0].PreviousJ)
	require.NotNil(t, timeline[1].PreviousJ)
	assert.Equal(t, 0, *timeline[1].PreviousJ)

	require.NoError(t, client.SetEventMarking(ctx, created.ID, 0, api.MarkingDone))
	assert.Equal(t, api.MarkingDone, server.Marking(created.ID, 0))

	timeline, err = client.FetchTimeline(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.MarkingDone, timeline[1].PreviousMarking)

	require.NoError(t, client.SetEventMarking(ctx, created.ID, 0, api.MarkingNone))
	assert.Equal(t, api.MarkingNone, server.Marking(created.ID, 0))

	require.NoError(t, client.SetArchived(ctx, created.ID, true))
	archived, exists := server.Archived(created.ID)
	assert.True(t, exists)
	assert.True(t, archived)

	timeline, err = client.FetchTimeline(ctx)
	require.NoError(t, err)
	assert.Empty(t, timeline)

	courses, err := client.FetchCourses(ctx, true)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	require.NoError(t, client.DeleteCourse(ctx, created.ID))
	_, exists = server.Archived(created.ID)
	assert.False(t, exists)
}

func TestServer_TimelineSkipsPastEvents(t *testing.T) {
	ctx := context.Background()
	_, client, _ := newLoggedInClient(t, day.MustParse("2024-01-10"))

	_, err := client.CreateCourse(ctx, api.CourseInput{
		Name:       "History",
		J0:         day.MustParse("2024-01-08"),
		JEnd:       day.MustParse("2024-03-01"),
		Recurrence: "0,1,3,7",
	})
	require.NoError(t, err)

	timeline, err := client.FetchTimeline(ctx)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, 3, timeline[0].J)
	assert.Equal(t, 7, timeline[1].J)
}

func TestServer_ExpireSessions(t *testing.T) {
	server, client, _ := newLoggedInClient(t, day.MustParse("2024-01-08"))

	disconnected := 0
	client.SetDisconnectedHandler(func() { disconnected++ })
	server.ExpireSessions()

	_, err := client.FetchCourses(context.Background(), false)
	assert.True(t, api.IsUnauthenticated(err))
	assert.Equal(t, 1, disconnected)
}

func TestServer_FailNext(t *testing.T) {
	server, client, _ := newLoggedInClient(t, day.MustParse("2024-01-08"))

	server.FailNext("timeline", 1)
	_, err := client.FetchTimeline(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, server.Requests("timeline"))
}

func TestServer_CalendarFeed(t *testing.T) {
	ctx := context.Background()
	_, client, accountID := newLoggedInClient(t, day.MustParse("2024-01-08"))

	created, err := client.CreateCourse(ctx, api.CourseInput{
		Name:       "Biology",
		J0:         day.MustParse("2024-01-08"),
		JEnd:       day.MustParse("2024-01-09"),
		Recurrence: "0,1,3",
	})
	require.NoError(t, err)

	feed, err := client.FetchCalendarFeed(ctx, accountID)
	require.NoError(t, err)

	entries, err := calendar.Parse(bytes.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, created.ID, entries[0].CourseID)
	assert.Equal(t, "Biology", entries[0].CourseName)
}
