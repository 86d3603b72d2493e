package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emiliopalmerini/mhabit/internal/adapters/storage"
	"github.com/emiliopalmerini/mhabit/internal/domain"
	"github.com/emiliopalmerini/mhabit/internal/habits"
	"github.com/emiliopalmerini/mhabit/internal/insights"
	"github.com/emiliopalmerini/mhabit/internal/ports"
)

var refNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type mockGenerator struct {
	mu           sync.Mutex
	calls        int
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "nice work", nil
}

func (m *mockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func testServer(t *testing.T, gen ports.InsightGenerator) *Server {
	t.Helper()

	store, err := storage.NewHabitStore(filepath.Join(t.TempDir(), "habits.json"))
	if err != nil {
		t.Fatalf("NewHabitStore() error = %v", err)
	}
	svc := habits.NewService(store, insights.NewCache(time.Minute), insights.NewAnalyzer(gen),
		habits.WithClock(func() time.Time { return refNow }))
	return NewServer(svc, 0)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return v
}

func createHabit(t *testing.T, s *Server, name string) domain.Habit {
	t.Helper()

	rec := do(t, s, http.MethodPost, "/api/habits", `{"name":"`+name+`","description":"daily"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[domain.Habit](t, rec)
}

func TestHealth(t *testing.T) {
	rec := do(t, testServer(t, &mockGenerator{}), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHabitsLifecycle(t *testing.T) {
	s := testServer(t, &mockGenerator{})

	rec := do(t, s, http.MethodGet, "/api/habits", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"habits":[]}` {
		t.Fatalf("empty list = %d %s", rec.Code, rec.Body.String())
	}

	h := createHabit(t, s, "Read")
	if h.ID == "" || h.Name != "Read" || h.Description != "daily" || h.CreatedAt != "2026-03-15T10:00:00Z" {
		t.Fatalf("created habit = %+v", h)
	}

	rec = do(t, s, http.MethodPost, "/api/habits/"+h.ID+"/toggle", `{"date":"2026-03-15"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	toggled := decode[habits.ToggleResult](t, rec)
	if toggled != (habits.ToggleResult{HabitID: h.ID, Date: "2026-03-15", Completed: true}) {
		t.Errorf("toggle result = %+v", toggled)
	}

	rec = do(t, s, http.MethodPut, "/api/habits/"+h.ID, `{"name":"Read more"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}
	if msg := decode[messageResponse](t, rec); msg.HabitID != h.ID || msg.Message != "Habit updated successfully" {
		t.Errorf("update response = %+v", msg)
	}

	list := decode[domain.HabitCollection](t, do(t, s, http.MethodGet, "/api/habits", ""))
	if len(list.Habits) != 1 || list.Habits[0].Name != "Read more" || list.Habits[0].Description != "daily" {
		t.Errorf("habits after update = %+v", list.Habits)
	}
	if len(list.Habits[0].Completions) != 1 {
		t.Errorf("completions = %+v", list.Habits[0].Completions)
	}

	rec = do(t, s, http.MethodDelete, "/api/habits/"+h.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	list = decode[domain.HabitCollection](t, do(t, s, http.MethodGet, "/api/habits", ""))
	if len(list.Habits) != 0 {
		t.Errorf("habits after delete = %+v", list.Habits)
	}
}

func TestErrorResponses(t *testing.T) {
	s := testServer(t, &mockGenerator{})
	h := createHabit(t, s, "Walk")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"create invalid json", http.MethodPost, "/api/habits", `{"name":`, http.StatusBadRequest},
		{"create empty name", http.MethodPost, "/api/habits", `{"name":"  "}`, http.StatusBadRequest},
		{"toggle missing date", http.MethodPost, "/api/habits/" + h.ID + "/toggle", `{}`, http.StatusBadRequest},
		{"toggle no body", http.MethodPost, "/api/habits/" + h.ID + "/toggle", ``, http.StatusBadRequest},
		{"toggle malformed date", http.MethodPost, "/api/habits/" + h.ID + "/toggle", `{"date":"15-03-2026"}`, http.StatusBadRequest},
		{"toggle unknown habit", http.MethodPost, "/api/habits/nope/toggle", `{"date":"2026-03-15"}`, http.StatusNotFound},
		{"update unknown habit", http.MethodPut, "/api/habits/nope", `{"name":"x"}`, http.StatusNotFound},
		{"update empty name", http.MethodPut, "/api/habits/" + h.ID, `{"name":""}`, http.StatusBadRequest},
		{"delete unknown habit", http.MethodDelete, "/api/habits/nope", ``, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if e := decode[errorResponse](t, rec); e.Error == "" {
				t.Error("error body should carry a message")
			}
		})
	}

	if e := decode[errorResponse](t, do(t, s, http.MethodDelete, "/api/habits/nope", "")); e.Error != "Habit not found" {
		t.Errorf("not found message = %q", e.Error)
	}
}

func TestStats(t *testing.T) {
	s := testServer(t, &mockGenerator{})
	h := createHabit(t, s, "Stretch")
	for _, d := range []string{"2026-03-13", "2026-03-14", "2026-03-15"} {
		do(t, s, http.MethodPost, "/api/habits/"+h.ID+"/toggle", `{"date":"`+d+`"}`)
	}

	rec := do(t, s, http.MethodGet, "/api/habits/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	stats := decode[domain.StatsSummary](t, rec)
	if stats.TotalHabits != 1 || len(stats.HabitsData) != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	got := stats.HabitsData[0]
	want := domain.HabitStats{ID: h.ID, Name: "Stretch", TotalCompletions: 3, Streak: 3, LongestStreak: 3, CompletionRate: 100}
	if got != want {
		t.Errorf("habit stats = %+v, want %+v", got, want)
	}
}

func TestInsights(t *testing.T) {
	gen := &mockGenerator{}
	s := testServer(t, gen)

	report := decode[domain.InsightReport](t, do(t, s, http.MethodGet, "/api/insights", ""))
	if report.AnalysisReady || report.Message != insights.MessageNoHabits {
		t.Errorf("empty report = %+v", report)
	}

	h := createHabit(t, s, "Journal")
	for _, d := range []string{"2026-03-12", "2026-03-13", "2026-03-14", "2026-03-15"} {
		do(t, s, http.MethodPost, "/api/habits/"+h.ID+"/toggle", `{"date":"`+d+`"}`)
	}

	rec := do(t, s, http.MethodGet, "/api/insights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("insights status = %d", rec.Code)
	}
	report = decode[domain.InsightReport](t, rec)
	if !report.AnalysisReady || len(report.HabitInsights) != 1 || report.HabitInsights[0].Insight != "nice work" {
		t.Errorf("ready report = %+v", report)
	}
	if gen.Calls() != 2 {
		t.Errorf("provider calls = %d, want 2", gen.Calls())
	}

	do(t, s, http.MethodGet, "/api/insights", "")
	if gen.Calls() != 2 {
		t.Errorf("cached read should not call the provider; calls = %d", gen.Calls())
	}
}

func TestUpdate_EmptyBodyKeepsInsightsCache(t *testing.T) {
	gen := &mockGenerator{}
	s := testServer(t, gen)
	h := createHabit(t, s, "Journal")
	for _, d := range []string{"2026-03-13", "2026-03-14", "2026-03-15"} {
		do(t, s, http.MethodPost, "/api/habits/"+h.ID+"/toggle", `{"date":"`+d+`"}`)
	}
	do(t, s, http.MethodGet, "/api/insights", "")
	calls := gen.Calls()

	for _, body := range []string{"", "{}"} {
		rec := do(t, s, http.MethodPut, "/api/habits/"+h.ID, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("update with body %q status = %d", body, rec.Code)
		}
	}
	if rec := do(t, s, http.MethodPut, "/api/habits/nope", "{}"); rec.Code != http.StatusNotFound {
		t.Errorf("empty update of unknown habit status = %d, want 404", rec.Code)
	}

	do(t, s, http.MethodGet, "/api/insights", "")
	if gen.Calls() != calls {
		t.Errorf("empty update invalidated the insights cache; calls %d -> %d", calls, gen.Calls())
	}
}

func TestInsights_InternalError(t *testing.T) {
	gen := &mockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		panic(errors.New("provider bug"))
	}}
	s := testServer(t, gen)
	h := createHabit(t, s, "Run")
	for _, d := range []string{"2026-03-13", "2026-03-14", "2026-03-15"} {
		do(t, s, http.MethodPost, "/api/habits/"+h.ID+"/toggle", `{"date":"`+d+`"}`)
	}

	rec := do(t, s, http.MethodGet, "/api/insights", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if e := decode[errorResponse](t, rec); !strings.HasPrefix(e.Error, "Failed to generate insights: ") {
		t.Errorf("error = %q", e.Error)
	}
}

func TestGoals(t *testing.T) {
	s := testServer(t, &mockGenerator{})

	report := decode[domain.GoalReport](t, do(t, s, http.MethodGet, "/api/goals", ""))
	if report.Message != "Add some habits to get goal suggestions" {
		t.Errorf("goals for empty set = %+v", report)
	}
}
