// Package apitest is an in-memory mdj backend for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/calendar"
	"github.com/edgarogh/mdj/internal/day"
	"github.com/edgarogh/mdj/internal/recurrence"
)

const (
	sessionCookie = "user_session"
	timelineLimit = 50
)

type account struct {
	id           string
	email        string
	passwordHash []byte
}

type course struct {
	id          string
	owner       string
	name        string
	description string
	j0          day.Day
	jEnd        day.Day
	recurrence  string
	archived    bool
	markings    map[int]api.Marking
}

// Server serves the backend routes over httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	today    day.Day
	accounts map[string]*account
	sessions map[string]string
	courses  map[string]*course
	failures map[string]int
	requests map[string]int
}

// NewServer starts a backend whose "today" is fixed.
func NewServer(today day.Day) *Server {
	s := &Server{
		today:    today,
		accounts: make(map[string]*account),
		sessions: make(map[string]string),
		courses:  make(map[string]*course),
		failures: make(map[string]int),
		requests: make(map[string]int),
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// AddAccount registers a user and returns its id.
func (s *Server) AddAccount(email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := &account{id: uuid.NewString(), email: email, passwordHash: hash}
	s.accounts[a.id] = a
	return a.id, nil
}

// ExpireSessions drops every session so the next call gets a 401.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]string)
}

// FailNext makes the next count calls of the named route answer status.
// Route names are the handler names registered in router, like "timeline".
func (s *Server) FailNext(route string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] += count
}

// Requests counts the calls a route received.
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// Marking reads an event marking as stored by the backend.
func (s *Server) Marking(courseID string, j int) api.Marking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.courses[courseID]; ok {
		return c.markings[j]
	}
	return api.MarkingNone
}

// Archived reports whether the course exists and is archived.
func (s *Server) Archived(courseID string) (archived bool, exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[courseID]
	if !ok {
		return false, false
	}
	return c.archived, true
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/login", s.route("login", s.handleLogin)).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.route("logout", s.handleLogout)).Methods(http.MethodGet)
	r.HandleFunc("/api/account", s.route("account", s.authenticated(s.handleAccount))).Methods(http.MethodGet)
	r.HandleFunc("/api/courses", s.route("courses", s.authenticated(s.handleCourses))).Methods(http.MethodGet)
	r.HandleFunc("/api/courses", s.route("create", s.authenticated(s.handleCreate))).Methods(http.MethodPost)
	r.HandleFunc("/api/courses/{id}", s.route("update", s.authenticated(s.handleUpdate))).Methods(http.MethodPut)
	r.HandleFunc("/api/courses/{id}", s.route("delete", s.authenticated(s.handleDelete))).Methods(http.MethodDelete)
	r.HandleFunc("/api/courses/{id}/recurrence", s.route("recurrence", s.authenticated(s.handleRecurrence))).Methods(http.MethodPost)
	r.HandleFunc("/api/courses/{id}/archived", s.route("archive", s.authenticated(s.handleArchive))).Methods(http.MethodPut)
	r.HandleFunc("/api/courses/{id}/events/{j:[0-9]+}/marking", s.route("mark", s.authenticated(s.handleMark))).Methods(http.MethodPut)
	r.HandleFunc("/api/timeline", s.route("timeline", s.authenticated(s.handleTimeline))).Methods(http.MethodGet)
	r.HandleFunc("/ical/{account}", s.route("ical", s.handleCalendar)).Methods(http.MethodGet)
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<!doctype html><title>mdj</title>")
	}).Methods(http.MethodGet)
	return r
}

type accountHandler func(w http.ResponseWriter, r *http.Request, a *account)

// route counts requests and serves injected failures.
func (s *Server) route(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[name]++
		fail := s.failures[name] > 0
		if fail {
			s.failures[name]--
		}
		s.mu.Unlock()

		if fail {
			http.Error(w, "injected failure", http.StatusInternalServerError)
			return
		}
		next(w, r)
	}
}

func (s *Server) authenticated(next accountHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		s.mu.Lock()
		a, ok := s.accounts[s.sessions[cookie.Value]]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r, a)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	s.mu.Lock()
	var found *account
	for _, a := range s.accounts {
		if a.email == email {
			found = a
		}
	}
	s.mu.Unlock()

	if found == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error_kind": "database"})
		return
	}
	if err := bcrypt.CompareHashAndPassword(found.passwordHash, []byte(password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error_kind": "invalid_credentials"})
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = found.id
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true, SameSite: http.SameSiteStrictMode})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request, a *account) {
	writeJSON(w, http.StatusOK, api.AccountInfo{
		ID:          a.id,
		Email:       a.email,
		Recurrences: [][]int{recurrence.ParseOrFirst(recurrence.Default)},
	})
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request, a *account) {
	archived := r.URL.Query().Get("archived") == "true"

	s.mu.Lock()
	courses := make([]api.Course, 0)
	for _, c := range s.ownedLocked(a) {
		if c.archived == archived {
			courses = append(courses, c.wire())
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, courses)
}

func decodeInput(r *http.Request) (api.CourseInput, error) {
	var input api.CourseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return input, err
	}
	if input.Name == "" || input.J0.IsZero() || input.JEnd.IsZero() || !recurrence.Valid(input.Recurrence) {
		return input, fmt.Errorf("invalid course")
	}
	return input, nil
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, a *account) {
	input, err := decodeInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	c := &course{
		id:          uuid.NewString(),
		owner:       a.id,
		name:        input.Name,
		description: input.Description,
		j0:          input.J0,
		jEnd:        input.JEnd,
		recurrence:  input.Recurrence,
		markings:    make(map[int]api.Marking),
	}
	s.mu.Lock()
	s.courses[c.id] = c
	wire := c.wire()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, wire)
}

func (s *Server) owned(w http.ResponseWriter, r *http.Request, a *account) (*course, bool) {
	id := mux.Vars(r)["id"]
	c, ok := s.courses[id]
	if !ok || c.owner != a.id {
		http.NotFound(w, r)
		return nil, false
	}
	return c, true
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, a *account) {
	input, err := decodeInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.owned(w, r, a)
	if !ok {
		return
	}
	c.name = input.Name
	c.description = input.Description
	writeJSON(w, http.StatusOK, c.wire())
}

func (s *Server) handleRecurrence(w http.ResponseWriter, r *http.Request, a *account) {
	var body struct {
		Recurrence string  `json:"recurrence"`
		J0         day.Day `json:"j_0"`
		JEnd       day.Day `json:"j_end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !recurrence.Valid(body.Recurrence) {
		http.Error(w, "invalid recurrence", http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.owned(w, r, a)
	if !ok {
		return
	}
	c.recurrence = body.Recurrence
	c.j0 = body.J0
	c.jEnd = body.JEnd
	writeSuccess(w)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request, a *account) {
	var archived bool
	if err := json.NewDecoder(r.Body).Decode(&archived); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.owned(w, r, a)
	if !ok {
		return
	}
	c.archived = archived
	writeSuccess(w)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, a *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.owned(w, r, a)
	if !ok {
		return
	}
	delete(s.courses, c.id)
	writeSuccess(w)
}

func (s *Server) handleMark(w http.ResponseWriter, r *http.Request, a *account) {
	j, err := strconv.Atoi(mux.Vars(r)["j"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	marking, err := api.ParseMarking(string(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.owned(w, r, a)
	if !ok {
		return
	}
	if marking == api.MarkingNone {
		delete(c.markings, j)
	} else {
		c.markings[j] = marking
	}
	writeSuccess(w)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request, a *account) {
	s.mu.Lock()
	after := s.today
	s.mu.Unlock()
	if raw := r.URL.Query().Get("after"); raw != "" {
		if parsed, err := day.Parse(raw); err == nil {
			after = parsed
		}
	}

	s.mu.Lock()
	events := s.eventsLocked(a.id, after)
	s.mu.Unlock()
	if len(events) > timelineLimit {
		events = events[:timelineLimit]
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["account"]

	s.mu.Lock()
	_, ok := s.accounts[accountID]
	events := s.eventsLocked(accountID, day.Day{})
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	entries := make([]calendar.Entry, 0, len(events))
	for _, event := range events {
		entries = append(entries, calendar.Entry{
			CourseID:    event.Course,
			CourseName:  event.CourseName,
			Description: event.CourseDescription,
			J:           event.J,
			Date:        event.Date,
			Marking:     event.Marking,
		})
	}
	w.Header().Set("Content-Type", "text/calendar")
	if err := calendar.Export(w, entries, calendar.Options{Name: "mdj"}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// eventsLocked lists the events of active courses on or after from,
// by date then course.
func (s *Server) eventsLocked(owner string, from day.Day) []api.Event {
	events := make([]api.Event, 0)
	for _, c := range s.courses {
		if c.owner != owner || c.archived {
			continue
		}
		offsets := recurrence.ParseOrFirst(c.recurrence)
		for _, d := range recurrence.Dates(offsets, c.j0, c.jEnd) {
			if !from.IsZero() && d.Date.Before(from) {
				continue
			}
			event := api.Event{
				Course:            c.id,
				J:                 d.J,
				Marking:           c.markings[d.J],
				Date:              d.Date,
				CourseName:        c.name,
				CourseDescription: c.description,
			}
			if previousJ, ok := recurrence.Previous(offsets, d.J); ok {
				event.PreviousJ = &previousJ
				event.PreviousMarking = c.markings[previousJ]
			}
			events = append(events, event)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		if events[i].Course != events[j].Course {
			return events[i].Course < events[j].Course
		}
		return events[i].J < events[j].J
	})
	return events
}

func (s *Server) ownedLocked(a *account) []*course {
	courses := make([]*course, 0)
	for _, c := range s.courses {
		if c.owner == a.id {
			courses = append(courses, c)
		}
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].id < courses[j].id
	})
	return courses
}

func (c *course) wire() api.Course {
	offsets := recurrence.ParseOrFirst(c.recurrence)
	occurrences := make([]api.OccurrenceSummary, 0)
	for _, d := range recurrence.Dates(offsets, c.j0, c.jEnd) {
		occurrences = append(occurrences, api.OccurrenceSummary{Date: d.Date, J: d.J, Marking: c.markings[d.J]})
	}
	return api.Course{
		ID:          c.id,
		Name:        c.name,
		Description: c.description,
		J0:          c.j0,
		JEnd:        c.jEnd,
		Recurrence:  c.recurrence,
		Occurrences: occurrences,
	}
}
