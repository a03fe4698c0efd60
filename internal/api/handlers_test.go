package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/planbook/planbook/internal/store"
	"github.com/planbook/planbook/internal/types"
)

// --- Mock Implementations for Testing ---

// mockStore implements store.Store for handler tests. Unset fields yield
// not-found or zero values.
type mockStore struct {
	goals    map[string]types.MonthlyGoal
	todos    map[string]types.Todo
	listErr  error
	storeErr error

	updateCalls int
	lastPatch   types.GoalPatch
}

func newMockStore() *mockStore {
	return &mockStore{
		goals: map[string]types.MonthlyGoal{},
		todos: map[string]types.Todo{},
	}
}

func (m *mockStore) ListGoals(ctx context.Context) ([]types.MonthlyGoal, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	goals := []types.MonthlyGoal{}
	for _, g := range m.goals {
		goals = append(goals, g)
	}
	return goals, nil
}

func (m *mockStore) GetGoal(ctx context.Context, id string) (*types.MonthlyGoal, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	g, ok := m.goals[id]
	if !ok {
		return nil, store.ErrGoalNotFound
	}
	return &g, nil
}

func (m *mockStore) CreateGoal(ctx context.Context, goal types.NewMonthlyGoal) (*types.MonthlyGoal, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	now := time.Now().UTC()
	created := types.MonthlyGoal{
		ID:        "01HGOAL",
		Text:      goal.Text,
		DueMonth:  goal.DueMonth,
		DueDays:   goal.DueDays,
		Subtasks:  goal.Subtasks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.goals[created.ID] = created
	return &created, nil
}

func (m *mockStore) UpdateGoal(ctx context.Context, id string, patch types.GoalPatch) (*types.MonthlyGoal, error) {
	m.updateCalls++
	m.lastPatch = patch
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	g, ok := m.goals[id]
	if !ok {
		return nil, store.ErrGoalNotFound
	}
	if patch.Text != nil {
		g.Text = *patch.Text
	}
	if patch.DueMonth != nil {
		g.DueMonth = *patch.DueMonth
	}
	if patch.DueDays != nil {
		g.DueDays = *patch.DueDays
	}
	if patch.Subtasks != nil {
		g.Subtasks = *patch.Subtasks
	}
	m.goals[id] = g
	return &g, nil
}

func (m *mockStore) DeleteGoal(ctx context.Context, id string) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	if _, ok := m.goals[id]; !ok {
		return store.ErrGoalNotFound
	}
	delete(m.goals, id)
	return nil
}

func (m *mockStore) ListTodos(ctx context.Context) ([]types.Todo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	todos := []types.Todo{}
	for _, td := range m.todos {
		todos = append(todos, td)
	}
	return todos, nil
}

func (m *mockStore) GetTodo(ctx context.Context, id string) (*types.Todo, error) {
	td, ok := m.todos[id]
	if !ok {
		return nil, store.ErrTodoNotFound
	}
	return &td, nil
}

func (m *mockStore) CreateTodo(ctx context.Context, todo types.NewTodo) (*types.Todo, error) {
	now := time.Now().UTC()
	created := types.Todo{ID: "01HTODO", Text: todo.Text, Completed: todo.Completed, CreatedAt: now, UpdatedAt: now}
	m.todos[created.ID] = created
	return &created, nil
}

func (m *mockStore) UpdateTodo(ctx context.Context, id string, patch types.TodoPatch) (*types.Todo, error) {
	td, ok := m.todos[id]
	if !ok {
		return nil, store.ErrTodoNotFound
	}
	if patch.Text != nil {
		td.Text = *patch.Text
	}
	if patch.Completed != nil {
		td.Completed = *patch.Completed
	}
	m.todos[id] = td
	return &td, nil
}

func (m *mockStore) DeleteTodo(ctx context.Context, id string) error {
	if _, ok := m.todos[id]; !ok {
		return store.ErrTodoNotFound
	}
	delete(m.todos, id)
	return nil
}

func (m *mockStore) Counts(ctx context.Context) (int64, int64, error) {
	if m.storeErr != nil {
		return 0, 0, m.storeErr
	}
	return int64(len(m.goals)), int64(len(m.todos)), nil
}

func (m *mockStore) Close() error { return nil }

func serve(t *testing.T, s store.Store, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewHandler(s, "", "test"))

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error body %q: %v", w.Body.String(), err)
	}
	return resp["error"]
}

// --- Goal Endpoint Tests ---

func TestListGoals_ReturnsJSONArray(t *testing.T) {
	s := newMockStore()
	s.goals["g1"] = types.MonthlyGoal{ID: "g1", Text: "Learn X", DueMonth: "March", DueDays: "10"}

	w := serve(t, s, http.MethodGet, "/api/monthly-goals", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}

	var goals []types.MonthlyGoal
	if err := json.Unmarshal(w.Body.Bytes(), &goals); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(goals) != 1 || goals[0].Text != "Learn X" {
		t.Errorf("goals = %+v, want single Learn X", goals)
	}
}

func TestListGoals_StoreFailureIs500Generic(t *testing.T) {
	s := newMockStore()
	s.listErr = errors.New("disk exploded: /secret/path")

	w := serve(t, s, http.MethodGet, "/api/monthly-goals", "")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	// Internal detail must not leak to the client
	if msg := decodeError(t, w); msg != "internal server error" {
		t.Errorf("error = %q, want generic message", msg)
	}
}

func TestCreateGoal_Returns201WithCreatedGoal(t *testing.T) {
	s := newMockStore()

	w := serve(t, s, http.MethodPost, "/api/monthly-goals",
		`{"text":"Learn X","dueMonth":"March","dueDays":"10","subtasks":[]}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var goal types.MonthlyGoal
	if err := json.Unmarshal(w.Body.Bytes(), &goal); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if goal.ID == "" {
		t.Error("created goal missing ID")
	}
	if goal.CreatedAt.IsZero() {
		t.Error("created goal missing timestamps")
	}
}

func TestCreateGoal_InvalidJSONIs400(t *testing.T) {
	w := serve(t, newMockStore(), http.MethodPost, "/api/monthly-goals", `{not json`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateGoal_ValidationFailureIs400(t *testing.T) {
	s := newMockStore()

	w := serve(t, s, http.MethodPost, "/api/monthly-goals",
		`{"text":"","dueMonth":"March","dueDays":"10"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := decodeError(t, w); !strings.Contains(msg, "text") {
		t.Errorf("error = %q, want mention of text field", msg)
	}
}

func TestGetGoal_NotFoundBody(t *testing.T) {
	w := serve(t, newMockStore(), http.MethodGet, "/api/monthly-goals/missing", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if msg := decodeError(t, w); msg != "Monthly goal not found" {
		t.Errorf("error = %q, want %q", msg, "Monthly goal not found")
	}
}

func TestUpdateGoal_NotFoundBody(t *testing.T) {
	w := serve(t, newMockStore(), http.MethodPut, "/api/monthly-goals/missing", `{"text":"x"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if msg := decodeError(t, w); msg != "Monthly goal not found" {
		t.Errorf("error = %q, want %q", msg, "Monthly goal not found")
	}
}

func TestDeleteGoal_NotFoundBody(t *testing.T) {
	w := serve(t, newMockStore(), http.MethodDelete, "/api/monthly-goals/missing", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if msg := decodeError(t, w); msg != "Monthly goal not found" {
		t.Errorf("error = %q, want %q", msg, "Monthly goal not found")
	}
}

func TestUpdateGoal_PartialPayloadForwardsNilFields(t *testing.T) {
	s := newMockStore()
	s.goals["g1"] = types.MonthlyGoal{ID: "g1", Text: "old", DueMonth: "March", DueDays: "10"}

	w := serve(t, s, http.MethodPut, "/api/monthly-goals/g1", `{"text":"new"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if s.lastPatch.Text == nil || *s.lastPatch.Text != "new" {
		t.Error("text should be present in patch")
	}
	if s.lastPatch.DueMonth != nil || s.lastPatch.Subtasks != nil {
		t.Error("absent payload fields must stay nil in the patch")
	}
}

func TestDeleteGoal_SuccessMessage(t *testing.T) {
	s := newMockStore()
	s.goals["g1"] = types.MonthlyGoal{ID: "g1", Text: "x"}

	w := serve(t, s, http.MethodDelete, "/api/monthly-goals/g1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["message"] != "Monthly goal deleted successfully" {
		t.Errorf("message = %q, want deletion confirmation", resp["message"])
	}
}

// --- Todo Endpoint Tests ---

func TestTodo_NotFoundBodies(t *testing.T) {
	s := newMockStore()

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/todos/missing", ""},
		{http.MethodPut, "/api/todos/missing", `{"text":"x"}`},
		{http.MethodDelete, "/api/todos/missing", ""},
	} {
		w := serve(t, s, tc.method, tc.path, tc.body)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", tc.method, tc.path, w.Code)
			continue
		}
		if msg := decodeError(t, w); msg != "Todo not found" {
			t.Errorf("%s %s: error = %q, want %q", tc.method, tc.path, msg, "Todo not found")
		}
	}
}

func TestTodo_CreateToggleDelete(t *testing.T) {
	s := newMockStore()

	w := serve(t, s, http.MethodPost, "/api/todos", `{"text":"buy milk"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", w.Code)
	}

	var todo types.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &todo); err != nil {
		t.Fatal(err)
	}

	w = serve(t, s, http.MethodPut, "/api/todos/"+todo.ID, `{"completed":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200", w.Code)
	}
	var updated types.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	if !updated.Completed {
		t.Error("completed = false after toggle, want true")
	}
	if updated.Text != "buy milk" {
		t.Errorf("text = %q, want unchanged buy milk", updated.Text)
	}

	w = serve(t, s, http.MethodDelete, "/api/todos/"+todo.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message"] != "Todo deleted successfully" {
		t.Errorf("message = %q, want deletion confirmation", resp["message"])
	}
}

func TestCreateTodo_MissingTextIs400(t *testing.T) {
	w := serve(t, newMockStore(), http.MethodPost, "/api/todos", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// --- Health Endpoint Tests ---

func TestHealth_ReturnsCounts(t *testing.T) {
	s := newMockStore()
	s.goals["g1"] = types.MonthlyGoal{ID: "g1"}
	s.todos["t1"] = types.Todo{ID: "t1"}
	s.todos["t2"] = types.Todo{ID: "t2"}

	w := serve(t, s, http.MethodGet, "/api/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp types.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.GoalCount != 1 || resp.TodoCount != 2 {
		t.Errorf("counts = %d/%d, want 1/2", resp.GoalCount, resp.TodoCount)
	}
}
