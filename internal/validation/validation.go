package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/planbook/planbook/internal/types"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateMonth returns an error if the value is not a canonical month name.
func ValidateMonth(field, value string) *ValidationError {
	if !types.ValidMonth(value) {
		return &ValidationError{Field: field, Message: "must be a month name (January through December)"}
	}
	return nil
}

// ValidateDueDays returns an error unless the value encodes a positive integer.
func ValidateDueDays(field, value string) *ValidationError {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return &ValidationError{Field: field, Message: "must be a positive integer"}
	}
	return nil
}

// ValidateSubtasks checks each subtask's required fields.
func ValidateSubtasks(field string, subtasks []types.Subtask) *ValidationError {
	for i, st := range subtasks {
		if strings.TrimSpace(st.Text) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("%s[%d].text", field, i),
				Message: "is required",
			}
		}
	}
	return nil
}

// ValidateNewGoal checks all required fields of a goal create payload.
func ValidateNewGoal(goal types.NewMonthlyGoal) *ValidationError {
	if err := ValidateRequired("text", goal.Text); err != nil {
		return err
	}
	if err := ValidateMonth("dueMonth", goal.DueMonth); err != nil {
		return err
	}
	if err := ValidateDueDays("dueDays", goal.DueDays); err != nil {
		return err
	}
	return ValidateSubtasks("subtasks", goal.Subtasks)
}

// ValidateGoalPatch checks only the fields present in a merge payload.
func ValidateGoalPatch(patch types.GoalPatch) *ValidationError {
	if patch.Text != nil {
		if err := ValidateRequired("text", *patch.Text); err != nil {
			return err
		}
	}
	if patch.DueMonth != nil {
		if err := ValidateMonth("dueMonth", *patch.DueMonth); err != nil {
			return err
		}
	}
	if patch.DueDays != nil {
		if err := ValidateDueDays("dueDays", *patch.DueDays); err != nil {
			return err
		}
	}
	if patch.Subtasks != nil {
		return ValidateSubtasks("subtasks", *patch.Subtasks)
	}
	return nil
}

// ValidateNewTodo checks the required fields of a todo create payload.
func ValidateNewTodo(todo types.NewTodo) *ValidationError {
	return ValidateRequired("text", todo.Text)
}

// ValidateTodoPatch checks only the fields present in a merge payload.
func ValidateTodoPatch(patch types.TodoPatch) *ValidationError {
	if patch.Text != nil {
		return ValidateRequired("text", *patch.Text)
	}
	return nil
}
