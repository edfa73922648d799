package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aimonlabs/intelligent-todo-app/internal/task"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockEstimator struct {
	calls int
	hours float64
}

func (m *mockEstimator) Estimate(ctx context.Context, description string) float64 {
	m.calls++
	return m.hours
}

type mockSummarizer struct {
	calls   int
	summary string
}

func (m *mockSummarizer) SummarizeDay(ctx context.Context, tasks []task.Task) string {
	m.calls++
	return m.summary
}

func newTestServer(t *testing.T) (*Server, *task.Store, *mockEstimator, *mockSummarizer) {
	t.Helper()
	store, err := task.NewStore(filepath.Join(t.TempDir(), "tasks.json"), log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	est := &mockEstimator{hours: 2.5}
	sum := &mockSummarizer{summary: "A focused day."}
	return NewServer(store, est, sum, "test"), store, est, sum
}

func doJSON(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response not JSON: %v\n%s", err, w.Body.String())
	}
	return w, payload
}

func TestHealth(t *testing.T) {
	s, _, _, _ := newTestServer(t)

	w, payload := doJSON(t, s, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if payload["success"] != true || payload["version"] != "test" {
		t.Errorf("payload = %v", payload)
	}
}

func TestCreateTaskWithExplicitHours(t *testing.T) {
	s, _, est, _ := newTestServer(t)

	w, payload := doJSON(t, s, http.MethodPost, "/api/tasks", map[string]any{
		"description":     "write report",
		"estimated_hours": 4.0,
		"priority":        "high",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %v", w.Code, payload)
	}
	if est.calls != 0 {
		t.Errorf("estimator called %d times for explicit hours, want 0", est.calls)
	}

	tk := payload["task"].(map[string]any)
	if tk["description"] != "write report" || tk["estimated_hours"] != 4.0 {
		t.Errorf("task = %v", tk)
	}
	if tk["status"] != "pending" {
		t.Errorf("status = %v, want pending", tk["status"])
	}
}

func TestCreateTaskDefersToEstimator(t *testing.T) {
	s, _, est, _ := newTestServer(t)

	w, payload := doJSON(t, s, http.MethodPost, "/api/tasks", map[string]any{
		"description": "plan offsite",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %v", w.Code, payload)
	}
	if est.calls != 1 {
		t.Errorf("estimator called %d times, want 1", est.calls)
	}

	tk := payload["task"].(map[string]any)
	if tk["estimated_hours"] != 2.5 {
		t.Errorf("estimated_hours = %v, want 2.5", tk["estimated_hours"])
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s, _, _, _ := newTestServer(t)

	w, _ := doJSON(t, s, http.MethodPost, "/api/tasks", map[string]any{"description": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty description: status = %d", w.Code)
	}

	w, _ = doJSON(t, s, http.MethodPost, "/api/tasks", map[string]any{
		"description": "x",
		"due_date":    "not a date",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad due date: status = %d", w.Code)
	}
}

func TestCreateTaskParsesDueDate(t *testing.T) {
	s, store, _, _ := newTestServer(t)

	w, payload := doJSON(t, s, http.MethodPost, "/api/tasks", map[string]any{
		"description":     "submit form",
		"due_date":        "2026-09-01T17:00:00",
		"estimated_hours": 1.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %v", w.Code, payload)
	}

	id := payload["task"].(map[string]any)["id"].(string)
	got, err := store.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.DueDate == nil {
		t.Fatal("due date not stored")
	}
	want := time.Date(2026, 9, 1, 17, 0, 0, 0, task.DefaultLocation())
	if !got.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, want)
	}
}

func TestListTasks(t *testing.T) {
	s, store, _, _ := newTestServer(t)
	store.Create(task.New("a", nil, 1))
	store.Create(task.New("b", nil, 2))

	w, payload := doJSON(t, s, http.MethodGet, "/api/tasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if payload["count"] != 2.0 {
		t.Errorf("count = %v", payload["count"])
	}

	w, _ = doJSON(t, s, http.MethodGet, "/api/tasks?status=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bogus filter: status = %d", w.Code)
	}
}

func TestGetUpdateDeleteTask(t *testing.T) {
	s, store, _, _ := newTestServer(t)
	tk, _ := store.Create(task.New("original", nil, 1))

	w, payload := doJSON(t, s, http.MethodGet, "/api/tasks/"+tk.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}

	w, payload = doJSON(t, s, http.MethodPut, "/api/tasks/"+tk.ID, map[string]any{
		"description": "edited",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d: %v", w.Code, payload)
	}
	if payload["task"].(map[string]any)["description"] != "edited" {
		t.Errorf("update payload = %v", payload)
	}

	w, _ = doJSON(t, s, http.MethodDelete, "/api/tasks/"+tk.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}

	w, _ = doJSON(t, s, http.MethodGet, "/api/tasks/"+tk.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d", w.Code)
	}
}

func TestUpdateClearsDueDate(t *testing.T) {
	s, store, _, _ := newTestServer(t)
	due := time.Now().Add(24 * time.Hour)
	tk, _ := store.Create(task.New("x", &due, 1))

	w, payload := doJSON(t, s, http.MethodPut, "/api/tasks/"+tk.ID, map[string]any{
		"due_date": "",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", w.Code, payload)
	}

	got, _ := store.Get(tk.ID)
	if got.DueDate != nil {
		t.Errorf("due date not cleared: %v", got.DueDate)
	}
}

func TestCompleteAndReopen(t *testing.T) {
	s, store, _, _ := newTestServer(t)
	tk, _ := store.Create(task.New("x", nil, 1))

	w, payload := doJSON(t, s, http.MethodPost, "/api/tasks/"+tk.ID+"/complete", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status = %d", w.Code)
	}
	if payload["task"].(map[string]any)["status"] != "completed" {
		t.Errorf("complete payload = %v", payload)
	}

	w, payload = doJSON(t, s, http.MethodPost, "/api/tasks/"+tk.ID+"/reopen", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reopen: status = %d", w.Code)
	}
	if payload["task"].(map[string]any)["completed"] != false {
		t.Errorf("reopen payload = %v", payload)
	}

	w, _ = doJSON(t, s, http.MethodPost, "/api/tasks/nope/complete", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("complete unknown: status = %d", w.Code)
	}
}

func TestEstimateEndpoint(t *testing.T) {
	s, _, est, _ := newTestServer(t)

	w, payload := doJSON(t, s, http.MethodPost, "/api/estimate", map[string]any{
		"description": "clean garage",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if payload["estimated_hours"] != 2.5 || est.calls != 1 {
		t.Errorf("payload = %v, estimator calls = %d", payload, est.calls)
	}

	w, _ = doJSON(t, s, http.MethodPost, "/api/estimate", map[string]any{"description": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty description: status = %d", w.Code)
	}
}

func TestSummaryToday(t *testing.T) {
	s, store, _, sum := newTestServer(t)

	now := time.Now()
	store.Create(task.New("due today", &now, 1))

	w, payload := doJSON(t, s, http.MethodGet, "/api/summary/today", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if payload["summary"] != "A focused day." || payload["count"] != 1.0 {
		t.Errorf("payload = %v", payload)
	}
	if sum.calls != 1 {
		t.Errorf("summarizer called %d times", sum.calls)
	}
}
