package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/api/apitest"
	"github.com/edgarogh/mdj/internal/day"
	"github.com/edgarogh/mdj/internal/store"
)

var testNow = time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

// newTestRoot loads a store from a fake backend holding one course,
// Algebra, whose first occurrence is today and marked done.
func newTestRoot(t *testing.T) (*store.Root, *apitest.Server, string) {
	t.Helper()
	ctx := context.Background()

	server := apitest.NewServer(day.FromInstant(testNow, time.UTC))
	t.Cleanup(server.Close)
	_, err := server.AddAccount("ada@example.com", "secret")
	require.NoError(t, err)

	client, err := api.NewClient(server.URL, api.Options{})
	require.NoError(t, err)
	outcome, err := client.Login(ctx, api.Credentials{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, api.LoginSucceeded, outcome)

	course, err := client.CreateCourse(ctx, api.CourseInput{
		Name:        "Algebra",
		Description: "Chapter 1",
		J0:          day.MustParse("2024-01-08"),
		JEnd:        day.MustParse("2024-03-01"),
		Recurrence:  "0,1,3,7,14",
	})
	require.NoError(t, err)
	require.NoError(t, client.SetEventMarking(ctx, course.ID, 0, api.MarkingDone))

	root, err := store.New(ctx, client,
		store.WithClock(func() time.Time { return testNow }),
		store.WithLocation(time.UTC),
	)
	require.NoError(t, err)
	t.Cleanup(root.Wait)
	root.Wait()
	return root, server, course.ID
}
