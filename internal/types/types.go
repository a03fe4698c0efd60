package types

import (
	"encoding/json"
	"time"
)

// Months holds the twelve canonical month names accepted in dueMonth.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// ValidMonth reports whether name is one of the canonical month names.
func ValidMonth(name string) bool {
	for _, m := range Months {
		if m == name {
			return true
		}
	}
	return false
}

// Todo is a standalone flat task.
type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Subtask is a dated, completable unit of work embedded in a MonthlyGoal.
// The store assigns an ID when an embedded subtask arrives without one.
type Subtask struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Date      string `json:"date"` // YYYY-MM-DD, empty when undated
	Completed bool   `json:"completed"`
}

// MonthlyGoal is a user-stated objective for a calendar month.
// Subtasks are embedded; they have no lifecycle outside their parent.
type MonthlyGoal struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	DueMonth  string    `json:"dueMonth"`
	DueDays   string    `json:"dueDays"`
	Subtasks  []Subtask `json:"subtasks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTodo is the input type for creating a todo (without generated fields).
type NewTodo struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// NewMonthlyGoal is the input type for creating a monthly goal.
type NewMonthlyGoal struct {
	Text     string    `json:"text"`
	DueMonth string    `json:"dueMonth"`
	DueDays  string    `json:"dueDays"`
	Subtasks []Subtask `json:"subtasks"`
}

// TodoPatch is a merge-on-replace update: nil fields keep their stored
// value, non-nil fields overwrite.
type TodoPatch struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// GoalPatch is a merge-on-replace update for a monthly goal. Replacing
// Subtasks replaces the whole sequence; there is no per-element patching.
type GoalPatch struct {
	Text     *string    `json:"text"`
	DueMonth *string    `json:"dueMonth"`
	DueDays  *string    `json:"dueDays"`
	Subtasks *[]Subtask `json:"subtasks"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoalCount int64  `json:"goal_count"`
	TodoCount int64  `json:"todo_count"`
}

// MarshalJSON ensures a nil Subtasks slice marshals as [] not null.
func (g MonthlyGoal) MarshalJSON() ([]byte, error) {
	if g.Subtasks == nil {
		g.Subtasks = []Subtask{}
	}
	type Alias MonthlyGoal
	return json.Marshal(Alias(g))
}
