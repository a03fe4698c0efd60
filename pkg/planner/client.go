// Package planner is the client library for a planbook server. Client is
// the HTTP transport; Controller layers the fetched state, derived views,
// and subtask mutation helpers on top of it.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/planbook/planbook/internal/types"
)

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client is an HTTP client for the planbook API. Each mutation is a direct,
// unbuffered request; there are no retries and no client-side timeout beyond
// what the injected http.Client enforces.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL. An empty apiKey
// sends no Authorization header. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// do performs a request, encoding body and decoding the response into out
// when non-nil. Error responses decode into *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// ListGoals fetches all goals, newest first.
func (c *Client) ListGoals(ctx context.Context) ([]types.MonthlyGoal, error) {
	var goals []types.MonthlyGoal
	if err := c.do(ctx, http.MethodGet, "/api/monthly-goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// GetGoal fetches one goal by ID.
func (c *Client) GetGoal(ctx context.Context, id string) (*types.MonthlyGoal, error) {
	var goal types.MonthlyGoal
	if err := c.do(ctx, http.MethodGet, "/api/monthly-goals/"+id, nil, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// CreateGoal creates a goal and returns it with assigned ID and timestamps.
func (c *Client) CreateGoal(ctx context.Context, goal types.NewMonthlyGoal) (*types.MonthlyGoal, error) {
	var created types.MonthlyGoal
	if err := c.do(ctx, http.MethodPost, "/api/monthly-goals", goal, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateGoal submits a merge-on-replace patch and returns the merged goal.
func (c *Client) UpdateGoal(ctx context.Context, id string, patch types.GoalPatch) (*types.MonthlyGoal, error) {
	var updated types.MonthlyGoal
	if err := c.do(ctx, http.MethodPut, "/api/monthly-goals/"+id, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteGoal deletes a goal by ID.
func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/monthly-goals/"+id, nil, nil)
}

// ListTodos fetches all todos, newest first.
func (c *Client) ListTodos(ctx context.Context) ([]types.Todo, error) {
	var todos []types.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo fetches one todo by ID.
func (c *Client) GetTodo(ctx context.Context, id string) (*types.Todo, error) {
	var todo types.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos/"+id, nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// CreateTodo creates a todo.
func (c *Client) CreateTodo(ctx context.Context, todo types.NewTodo) (*types.Todo, error) {
	var created types.Todo
	if err := c.do(ctx, http.MethodPost, "/api/todos", todo, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTodo submits a merge-on-replace patch for a todo.
func (c *Client) UpdateTodo(ctx context.Context, id string, patch types.TodoPatch) (*types.Todo, error) {
	var updated types.Todo
	if err := c.do(ctx, http.MethodPut, "/api/todos/"+id, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTodo deletes a todo by ID.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/"+id, nil, nil)
}

// Health fetches the server health status.
func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	var health types.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
