package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/net/publicsuffix"
	"resty.dev/v3"

	"github.com/edgarogh/mdj/internal/day"
)

const (
	loginPath  = "/login"
	logoutPath = "/logout"
)

// Options tune the transport of a Client.
type Options struct {
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
}

// Client is the resty implementation of Gateway.
type Client struct {
	httpClient       *resty.Client
	baseURL          *url.URL
	jar              http.CookieJar
	maxRetryAttempts uint
	retryDelay       time.Duration

	mu             sync.RWMutex
	onDisconnected func()
}

var _ Gateway = (*Client)(nil)

func NewClient(baseURL string, options Options) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("url.Parse(%s) > %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookiejar.New() > %w", err)
	}

	httpClient := resty.NewWithClient(&http.Client{Jar: jar})
	httpClient.SetBaseURL(parsed.String())
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if options.Timeout > 0 {
		httpClient.SetTimeout(options.Timeout)
	}

	retryDelay := options.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 100 * time.Millisecond
	}

	return &Client{
		httpClient:       httpClient,
		baseURL:          parsed,
		jar:              jar,
		maxRetryAttempts: options.RetryAttempts,
		retryDelay:       retryDelay,
	}, nil
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// SetDisconnectedHandler registers the callback run on every 401.
func (client *Client) SetDisconnectedHandler(handler func()) {
	client.mu.Lock()
	defer client.mu.Unlock()
	client.onDisconnected = handler
}

// Cookies returns the session cookies held for the backend.
func (client *Client) Cookies() []*http.Cookie {
	return client.jar.Cookies(client.baseURL)
}

// SetCookies restores cookies saved from an earlier Cookies call.
func (client *Client) SetCookies(cookies []*http.Cookie) {
	client.jar.SetCookies(client.baseURL, cookies)
}

func (client *Client) disconnected() {
	client.mu.RLock()
	handler := client.onDisconnected
	client.mu.RUnlock()

	slog.Default().Debug("backend reported an expired session")
	if handler != nil {
		handler()
	}
}

type loginErrorBody struct {
	ErrorKind string `json:"error_kind"`
}

// Login posts the credentials form. A redirect means the session was opened.
func (client *Client) Login(ctx context.Context, credentials Credentials) (LoginOutcome, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"email":    credentials.Email,
			"password": credentials.Password,
		}).
		Post(loginPath)
	if err != nil {
		return LoginMalformedResponse, fmt.Errorf("httpClient.Post(%s) > %w", loginPath, err)
	}

	if response.RawResponse != nil && response.RawResponse.Request != nil &&
		response.RawResponse.Request.URL.Path != client.baseURL.Path+loginPath {
		return LoginSucceeded, nil
	}

	var body loginErrorBody
	if err := json.Unmarshal([]byte(response.String()), &body); err != nil {
		slog.Default().Debug("unexpected login response", "status", response.StatusCode(), "body", response.String())
		return LoginMalformedResponse, nil
	}
	switch body.ErrorKind {
	case "database":
		return LoginInternalError, nil
	case "invalid_credentials":
		return LoginInvalidCredentials, nil
	default:
		return LoginMalformedResponse, nil
	}
}

// Logout ends the server session and forgets the local cookies.
func (client *Client) Logout(ctx context.Context) error {
	response, err := client.httpClient.R().
		SetContext(ctx).
		Get(logoutPath)
	if err != nil {
		return fmt.Errorf("httpClient.Get(%s) > %w", logoutPath, err)
	}
	if response.IsError() {
		return &ProtocolError{Method: http.MethodGet, Path: logoutPath, StatusCode: response.StatusCode(), Body: response.String()}
	}

	expired := make([]*http.Cookie, 0)
	for _, cookie := range client.Cookies() {
		expired = append(expired, &http.Cookie{Name: cookie.Name, Path: "/", MaxAge: -1})
	}
	client.SetCookies(expired)
	return nil
}

func (client *Client) FetchAccountInfo(ctx context.Context) (*AccountInfo, error) {
	var result AccountInfo
	if err := client.read(ctx, "/api/account", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (client *Client) FetchCourses(ctx context.Context, archived bool) ([]Course, error) {
	var result []Course
	query := map[string]string{"archived": fmt.Sprintf("%t", archived)}
	if err := client.read(ctx, "/api/courses", query, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (client *Client) FetchTimeline(ctx context.Context) ([]Event, error) {
	var result []Event
	if err := client.read(ctx, "/api/timeline", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FetchCalendarFeed downloads the server-side iCalendar feed of an account.
func (client *Client) FetchCalendarFeed(ctx context.Context, accountID string) ([]byte, error) {
	path := "/ical/" + url.PathEscape(accountID)
	var body []byte
	err := client.withRetry(ctx, func() error {
		response, err := client.send(ctx, http.MethodGet, path, func(request *resty.Request) {
			request.SetHeader("Accept", "text/calendar")
		})
		if err != nil {
			return err
		}
		body = []byte(response.String())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (client *Client) CreateCourse(ctx context.Context, input CourseInput) (*Course, error) {
	var result Course
	_, err := client.send(ctx, http.MethodPost, "/api/courses", func(request *resty.Request) {
		request.SetBody(input).SetResult(&result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (client *Client) UpdateCourse(ctx context.Context, id string, input CourseInput) error {
	_, err := client.send(ctx, http.MethodPut, "/api/courses/"+url.PathEscape(id), func(request *resty.Request) {
		request.SetBody(input)
	})
	return err
}

type recurrenceBody struct {
	Recurrence string  `json:"recurrence"`
	J0         day.Day `json:"j_0"`
	JEnd       day.Day `json:"j_end"`
}

func (client *Client) UpdateCourseRecurrence(ctx context.Context, id string, recurrence string, j0, jEnd day.Day) error {
	path := "/api/courses/" + url.PathEscape(id) + "/recurrence"
	_, err := client.send(ctx, http.MethodPost, path, func(request *resty.Request) {
		request.SetBody(recurrenceBody{Recurrence: recurrence, J0: j0, JEnd: jEnd})
	})
	return err
}

func (client *Client) SetArchived(ctx context.Context, id string, archived bool) error {
	body, err := json.Marshal(archived)
	if err != nil {
		return fmt.Errorf("json.Marshal() > %w", err)
	}
	path := "/api/courses/" + url.PathEscape(id) + "/archived"
	_, err = client.send(ctx, http.MethodPut, path, func(request *resty.Request) {
		request.SetHeader("Content-Type", "application/json").SetBody(body)
	})
	return err
}

func (client *Client) DeleteCourse(ctx context.Context, id string) error {
	_, err := client.send(ctx, http.MethodDelete, "/api/courses/"+url.PathEscape(id), nil)
	return err
}

func (client *Client) SetEventMarking(ctx context.Context, courseID string, j int, marking Marking) error {
	path := fmt.Sprintf("/api/courses/%s/events/%d/marking", url.PathEscape(courseID), j)
	_, err := client.send(ctx, http.MethodPut, path, func(request *resty.Request) {
		request.SetHeader("Content-Type", "text/plain").SetBody(string(marking))
	})
	return err
}

// read is a retried GET decoding a JSON payload into result.
func (client *Client) read(ctx context.Context, path string, query map[string]string, result interface{}) error {
	return client.withRetry(ctx, func() error {
		_, err := client.send(ctx, http.MethodGet, path, func(request *resty.Request) {
			if query != nil {
				request.SetQueryParams(query)
			}
			request.SetResult(result)
		})
		return err
	})
}

// send runs one request and classifies its status.
func (client *Client) send(ctx context.Context, method, path string, configure func(*resty.Request)) (*resty.Response, error) {
	request := client.httpClient.R().SetContext(ctx)
	if configure != nil {
		configure(request)
	}

	response, err := request.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Execute(%s %s) > %w", method, path, err)
	}

	switch {
	case response.StatusCode() == http.StatusUnauthorized:
		client.disconnected()
		return nil, ErrUnauthenticated
	case !response.IsSuccess():
		return nil, &ProtocolError{Method: method, Path: path, StatusCode: response.StatusCode(), Body: response.String()}
	}
	return response, nil
}

func (client *Client) withRetry(ctx context.Context, fn func() error) error {
	attempt := 0
	return retry.Do(
		func() error {
			attempt++
			err := fn()
			if err == nil {
				return nil
			}
			if !isRetryableError(err) {
				return retry.Unrecoverable(err)
			}
			slog.Default().Debug("retrying backend read", "attempt", attempt, "error", err)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.Delay(client.retryDelay),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.LastErrorOnly(true),
	)
}

// IsUnauthenticated reports whether err is the 401 outcome.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}
