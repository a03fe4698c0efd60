package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/planbook/planbook/internal/store"
	"github.com/planbook/planbook/internal/types"
	"github.com/planbook/planbook/internal/validation"
)

// Handler implements the API handlers
type Handler struct {
	store   store.Store
	apiKey  string
	version string
}

// NewHandler creates a new Handler backed by the given store.
func NewHandler(s store.Store, apiKey, version string) *Handler {
	return &Handler{
		store:   s,
		apiKey:  apiKey,
		version: version,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	goals, todos, err := h.store.Counts(r.Context())
	if err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		GoalCount: goals,
		TodoCount: todos,
	})
}

// ListGoals handles GET /api/monthly-goals
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.store.ListGoals(r.Context())
	if err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

// CreateGoal handles POST /api/monthly-goals
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req types.NewMonthlyGoal
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err.Error()))
		return
	}

	if err := validation.ValidateNewGoal(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := h.store.CreateGoal(r.Context(), req)
	if err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

// GetGoal handles GET /api/monthly-goals/{id}
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.store.GetGoal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

// UpdateGoal handles PUT /api/monthly-goals/{id}. The payload may be
// partial: present fields overwrite, absent fields keep their stored value.
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var patch types.GoalPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err.Error()))
		return
	}

	if err := validation.ValidateGoalPatch(patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := h.store.UpdateGoal(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/monthly-goals/{id}
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Monthly goal deleted successfully"})
}

// ListTodos handles GET /api/todos
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.ListTodos(r.Context())
	if err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

// CreateTodo handles POST /api/todos
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req types.NewTodo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err.Error()))
		return
	}

	if err := validation.ValidateNewTodo(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.store.CreateTodo(r.Context(), req)
	if err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, todo)
}

// GetTodo handles GET /api/todos/{id}
func (h *Handler) GetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.store.GetTodo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// UpdateTodo handles PUT /api/todos/{id}
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var patch types.TodoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err.Error()))
		return
	}

	if err := validation.ValidateTodoPatch(patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.store.UpdateTodo(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// DeleteTodo handles DELETE /api/todos/{id}
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTodo(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Todo deleted successfully"})
}
