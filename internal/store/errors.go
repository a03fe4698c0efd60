package store

import "errors"

var (
	ErrGoalNotFound = errors.New("monthly goal not found")
	ErrTodoNotFound = errors.New("todo not found")
)
