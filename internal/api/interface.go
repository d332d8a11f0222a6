// Package api is the only place that talks to the mdj backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edgarogh/mdj/internal/day"
)

//go:generate mockgen -source=interface.go -destination=../mocks/api/mock_gateway.go -package=mock_api

// Gateway lists the backend capabilities the stores depend on.
//
// A 401 from any call except Login invokes the disconnected handler and
// returns ErrUnauthenticated with a zero payload. Any other unexpected status
// is a *ProtocolError.
type Gateway interface {
	Login(ctx context.Context, credentials Credentials) (LoginOutcome, error)
	Logout(ctx context.Context) error
	FetchAccountInfo(ctx context.Context) (*AccountInfo, error)
	FetchCourses(ctx context.Context, archived bool) ([]Course, error)
	CreateCourse(ctx context.Context, input CourseInput) (*Course, error)
	UpdateCourse(ctx context.Context, id string, input CourseInput) error
	UpdateCourseRecurrence(ctx context.Context, id string, recurrence string, j0, jEnd day.Day) error
	SetArchived(ctx context.Context, id string, archived bool) error
	DeleteCourse(ctx context.Context, id string) error
	FetchTimeline(ctx context.Context) ([]Event, error)
	SetEventMarking(ctx context.Context, courseID string, j int, marking Marking) error
	SetDisconnectedHandler(handler func())
}

// Credentials are sent form-encoded to the login endpoint.
type Credentials struct {
	Email    string
	Password string
}

// LoginOutcome classifies a login attempt.
type LoginOutcome int

const (
	LoginSucceeded LoginOutcome = iota
	LoginInvalidCredentials
	LoginInternalError
	LoginMalformedResponse
)

func (o LoginOutcome) String() string {
	switch o {
	case LoginSucceeded:
		return "succeeded"
	case LoginInvalidCredentials:
		return "invalid_credentials"
	case LoginInternalError:
		return "internal_error"
	case LoginMalformedResponse:
		return "malformed_response"
	default:
		return fmt.Sprintf("LoginOutcome(%d)", int(o))
	}
}

// AccountInfo is the signed-in account.
type AccountInfo struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Recurrences [][]int `json:"recurrences"`
}

// Course is the wire form of a course with its occurrences.
type Course struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	J0          day.Day             `json:"j_0"`
	JEnd        day.Day             `json:"j_end"`
	Recurrence  string              `json:"recurrence"`
	Occurrences []OccurrenceSummary `json:"occurrences"`
}

// CourseInput is the body of course create and update calls.
type CourseInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	J0          day.Day `json:"j_0"`
	JEnd        day.Day `json:"j_end"`
	Recurrence  string  `json:"recurrence"`
}

// OccurrenceSummary is encoded as a [date, j, marking] tuple.
type OccurrenceSummary struct {
	Date    day.Day
	J       int
	Marking Marking
}

func (o OccurrenceSummary) MarshalJSON() ([]byte, error) {
	var marking interface{}
	if o.Marking != MarkingNone {
		marking = string(o.Marking)
	}
	return json.Marshal([]interface{}{o.Date, o.J, marking})
}

func (o *OccurrenceSummary) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("json.Unmarshal(occurrence) > %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("occurrence has %d fields, want 3", len(raw))
	}

	var out OccurrenceSummary
	if err := json.Unmarshal(raw[0], &out.Date); err != nil {
		return fmt.Errorf("occurrence date > %w", err)
	}
	if err := json.Unmarshal(raw[1], &out.J); err != nil {
		return fmt.Errorf("occurrence j > %w", err)
	}
	var marking *string
	if err := json.Unmarshal(raw[2], &marking); err != nil {
		return fmt.Errorf("occurrence marking > %w", err)
	}
	if marking != nil {
		out.Marking = Marking(*marking)
	}
	*o = out
	return nil
}

// Event is one timeline entry.
type Event struct {
	Course            string  `json:"course"`
	J                 int     `json:"j"`
	Marking           Marking `json:"marking"`
	Date              day.Day `json:"date"`
	PreviousJ         *int    `json:"previous_j,omitempty"`
	PreviousMarking   Marking `json:"previous_marking,omitempty"`
	CourseName        string  `json:"course_name,omitempty"`
	CourseDescription string  `json:"course_description,omitempty"`
}
