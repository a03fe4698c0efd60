package store

import (
	"context"

	"github.com/planbook/planbook/internal/types"
)

// Store defines the persistence contract for both collections. Entities are
// read and written as whole documents; updates merge the patch over the
// stored fields.
type Store interface {
	ListGoals(ctx context.Context) ([]types.MonthlyGoal, error)
	GetGoal(ctx context.Context, id string) (*types.MonthlyGoal, error)
	CreateGoal(ctx context.Context, goal types.NewMonthlyGoal) (*types.MonthlyGoal, error)
	UpdateGoal(ctx context.Context, id string, patch types.GoalPatch) (*types.MonthlyGoal, error)
	DeleteGoal(ctx context.Context, id string) error

	ListTodos(ctx context.Context) ([]types.Todo, error)
	GetTodo(ctx context.Context, id string) (*types.Todo, error)
	CreateTodo(ctx context.Context, todo types.NewTodo) (*types.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch types.TodoPatch) (*types.Todo, error)
	DeleteTodo(ctx context.Context, id string) error

	Counts(ctx context.Context) (goals, todos int64, err error)
	Close() error
}
