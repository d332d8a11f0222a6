package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/edgarogh/mdj/internal/api"
	mock_cli "github.com/edgarogh/mdj/internal/mocks/cli"
)

func TestInteractiveCLI_Run(t *testing.T) {
	errInput := errors.New("input closed")

	testCases := []struct {
		name    string
		results []error
		wantErr error
	}{
		{
			name:    "ends after sessions",
			results: []error{nil, nil, errEnd},
		},
		{
			name:    "session failure",
			results: []error{nil, errInput},
			wantErr: errInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			session := mock_cli.NewMockSession(ctrl)
			calls := make([]any, 0, len(tc.results))
			for _, result := range tc.results {
				calls = append(calls, session.EXPECT().Session(gomock.Any()).Return(result))
			}
			gomock.InOrder(calls...)

			cli := newInteractiveCLI(strings.NewReader(""), &bytes.Buffer{}, false)
			err := cli.Run(context.Background(), session)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestReviewCLI_Session(t *testing.T) {
	root, server, courseID := newTestRoot(t)
	events := root.Events().Timeline7Days()
	require.Len(t, events, 3)

	var out bytes.Buffer
	review := NewReviewCLI(events, strings.NewReader("s\n\nx\nfurther_learning_required\n"), &out, false)
	require.NoError(t, review.Run(context.Background(), review))
	root.Wait()

	assert.Equal(t, 0, review.EventCount())
	assert.Equal(t, api.MarkingStarted, server.Marking(courseID, 1))
	assert.Equal(t, api.MarkingNone, server.Marking(courseID, 3))
	assert.Equal(t, api.MarkingFurtherLearningRequired, server.Marking(courseID, 7))
	assert.Equal(t, api.MarkingStarted, root.Events().Find(courseID, 1).Marking())
	assert.Contains(t, out.String(), "Algebra #1 (2024-01-09, currently Upcoming)\n  previous #0: Done\n")
	assert.Contains(t, out.String(), `Unknown answer "x"`)
	assert.Contains(t, out.String(), "Nothing left to review!")
}

func TestReviewCLI_Quit(t *testing.T) {
	root, server, courseID := newTestRoot(t)

	review := NewReviewCLI(root.Events().Timeline7Days(), strings.NewReader("q\nd\n"), &bytes.Buffer{}, false)
	require.NoError(t, review.Run(context.Background(), review))
	root.Wait()

	assert.Equal(t, 3, review.EventCount())
	assert.Equal(t, api.MarkingNone, server.Marking(courseID, 1))
}

func TestReviewCLI_EndOfInput(t *testing.T) {
	root, server, courseID := newTestRoot(t)

	review := NewReviewCLI(root.Events().Timeline7Days(), strings.NewReader("d"), &bytes.Buffer{}, false)
	require.NoError(t, review.Run(context.Background(), review))
	root.Wait()

	assert.Equal(t, 2, review.EventCount())
	assert.Equal(t, api.MarkingDone, server.Marking(courseID, 1))
}
