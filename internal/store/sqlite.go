package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/planbook/planbook/internal/types"
	_ "modernc.org/sqlite"
)

// timeLayout is RFC 3339 with fixed-width nanoseconds so stored timestamps
// sort lexicographically in creation order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists both collections in a single SQLite database.
// Goals keep their subtasks as a JSON column so a goal is read and written
// as one document, matching the merge-on-replace update contract.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath,
// applies pragmas, and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ensureSubtaskIDs assigns an ID to every subtask that lacks one. Existing
// IDs are preserved so edits keep a stable address across replaces.
func ensureSubtaskIDs(subtasks []types.Subtask) []types.Subtask {
	for i := range subtasks {
		if subtasks[i].ID == "" {
			subtasks[i].ID = uuid.New().String()
		}
	}
	return subtasks
}

func marshalSubtasks(subtasks []types.Subtask) (string, error) {
	if subtasks == nil {
		subtasks = []types.Subtask{}
	}
	data, err := json.Marshal(subtasks)
	if err != nil {
		return "", fmt.Errorf("marshal subtasks: %w", err)
	}
	return string(data), nil
}

// scanGoal scans a monthly_goals row, parsing the subtasks JSON column.
func scanGoal(scanner interface{ Scan(...any) error }) (*types.MonthlyGoal, error) {
	var goal types.MonthlyGoal
	var subtasksJSON string
	var createdAt, updatedAt string

	err := scanner.Scan(
		&goal.ID,
		&goal.Text,
		&goal.DueMonth,
		&goal.DueDays,
		&subtasksJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(subtasksJSON), &goal.Subtasks); err != nil {
		return nil, fmt.Errorf("parse subtasks JSON: %w", err)
	}
	if goal.Subtasks == nil {
		goal.Subtasks = []types.Subtask{}
	}

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		goal.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		goal.UpdatedAt = t
	}

	return &goal, nil
}

// ListGoals returns all goals sorted by creation time descending.
func (s *SQLiteStore) ListGoals(ctx context.Context) ([]types.MonthlyGoal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, due_month, due_days, subtasks, created_at, updated_at
		FROM monthly_goals
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	goals := []types.MonthlyGoal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		goals = append(goals, *goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return goals, nil
}

// GetGoal retrieves a goal by ID.
func (s *SQLiteStore) GetGoal(ctx context.Context, id string) (*types.MonthlyGoal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, due_month, due_days, subtasks, created_at, updated_at
		FROM monthly_goals
		WHERE id = ?
	`, id)

	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("scan row: %w", err)
	}

	return goal, nil
}

// CreateGoal stores a new goal, assigning its ID, subtask IDs, and timestamps.
func (s *SQLiteStore) CreateGoal(ctx context.Context, goal types.NewMonthlyGoal) (*types.MonthlyGoal, error) {
	now := time.Now().UTC()
	created := types.MonthlyGoal{
		ID:        ulid.Make().String(),
		Text:      goal.Text,
		DueMonth:  goal.DueMonth,
		DueDays:   goal.DueDays,
		Subtasks:  ensureSubtaskIDs(goal.Subtasks),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if created.Subtasks == nil {
		created.Subtasks = []types.Subtask{}
	}

	subtasksJSON, err := marshalSubtasks(created.Subtasks)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO monthly_goals (id, text, due_month, due_days, subtasks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, created.ID, created.Text, created.DueMonth, created.DueDays, subtasksJSON,
		created.CreatedAt.Format(timeLayout), created.UpdatedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}

	return &created, nil
}

// UpdateGoal merges the patch over the stored goal and writes the result
// back as one document. Absent patch fields keep their stored values. There
// is no concurrency token: two racing read-modify-write cycles resolve as
// last writer wins.
func (s *SQLiteStore) UpdateGoal(ctx context.Context, id string, patch types.GoalPatch) (*types.MonthlyGoal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, text, due_month, due_days, subtasks, created_at, updated_at
		FROM monthly_goals
		WHERE id = ?
	`, id)

	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if patch.Text != nil {
		goal.Text = *patch.Text
	}
	if patch.DueMonth != nil {
		goal.DueMonth = *patch.DueMonth
	}
	if patch.DueDays != nil {
		goal.DueDays = *patch.DueDays
	}
	if patch.Subtasks != nil {
		goal.Subtasks = ensureSubtaskIDs(*patch.Subtasks)
	}
	goal.UpdatedAt = time.Now().UTC()

	subtasksJSON, err := marshalSubtasks(goal.Subtasks)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE monthly_goals
		SET text = ?, due_month = ?, due_days = ?, subtasks = ?, updated_at = ?
		WHERE id = ?
	`, goal.Text, goal.DueMonth, goal.DueDays, subtasksJSON,
		goal.UpdatedAt.Format(timeLayout), id)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return goal, nil
}

// DeleteGoal removes a goal by ID.
func (s *SQLiteStore) DeleteGoal(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM monthly_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func scanTodo(scanner interface{ Scan(...any) error }) (*types.Todo, error) {
	var todo types.Todo
	var completed int
	var createdAt, updatedAt string

	err := scanner.Scan(&todo.ID, &todo.Text, &completed, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	todo.Completed = completed != 0

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		todo.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		todo.UpdatedAt = t
	}

	return &todo, nil
}

// ListTodos returns all todos sorted by creation time descending.
func (s *SQLiteStore) ListTodos(ctx context.Context) ([]types.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, completed, created_at, updated_at
		FROM todos
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos := []types.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		todos = append(todos, *todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return todos, nil
}

// GetTodo retrieves a todo by ID.
func (s *SQLiteStore) GetTodo(ctx context.Context, id string) (*types.Todo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, completed, created_at, updated_at
		FROM todos
		WHERE id = ?
	`, id)

	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("scan row: %w", err)
	}

	return todo, nil
}

// CreateTodo stores a new todo, assigning its ID and timestamps.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo types.NewTodo) (*types.Todo, error) {
	now := time.Now().UTC()
	created := types.Todo{
		ID:        ulid.Make().String(),
		Text:      todo.Text,
		Completed: todo.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (id, text, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, created.ID, created.Text, boolToInt(created.Completed),
		created.CreatedAt.Format(timeLayout), created.UpdatedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	return &created, nil
}

// UpdateTodo merges the patch over the stored todo.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, id string, patch types.TodoPatch) (*types.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, text, completed, created_at, updated_at
		FROM todos
		WHERE id = ?
	`, id)

	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if patch.Text != nil {
		todo.Text = *patch.Text
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	todo.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE todos
		SET text = ?, completed = ?, updated_at = ?
		WHERE id = ?
	`, todo.Text, boolToInt(todo.Completed), todo.UpdatedAt.Format(timeLayout), id)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return todo, nil
}

// DeleteTodo removes a todo by ID.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// Counts returns the number of goals and todos.
func (s *SQLiteStore) Counts(ctx context.Context) (int64, int64, error) {
	var goals, todos int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM monthly_goals").Scan(&goals); err != nil {
		return 0, 0, fmt.Errorf("count goals: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM todos").Scan(&todos); err != nil {
		return 0, 0, fmt.Errorf("count todos: %w", err)
	}
	return goals, todos, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
