package planner

import "github.com/planbook/planbook/internal/types"

// GoalViewState is transient per-goal UI state: the expanded/collapsed flag
// and in-flight input buffers. It lives outside the domain entity and is
// keyed by goal ID.
type GoalViewState struct {
	Expanded bool

	// Buffers for the new-subtask inputs.
	SubtaskText string
	SubtaskDate string

	// Buffers for an in-flight goal edit.
	EditText  string
	EditMonth string
	EditDays  string

	// ID of the subtask currently being edited, with its buffers.
	EditingSubtaskID string
	EditSubtaskText  string
	EditSubtaskDate  string
}

// ViewState tracks GoalViewState per goal ID.
type ViewState struct {
	goals map[string]*GoalViewState
}

// NewViewState returns an empty view state.
func NewViewState() *ViewState {
	return &ViewState{goals: make(map[string]*GoalViewState)}
}

// Get returns the state for a goal, creating it on first access.
func (v *ViewState) Get(goalID string) *GoalViewState {
	state, ok := v.goals[goalID]
	if !ok {
		state = &GoalViewState{}
		v.goals[goalID] = state
	}
	return state
}

// ToggleExpanded flips a goal's expanded flag and returns the new value.
func (v *ViewState) ToggleExpanded(goalID string) bool {
	state := v.Get(goalID)
	state.Expanded = !state.Expanded
	return state.Expanded
}

// ClearSubtaskInput resets the new-subtask buffers after a submit.
func (v *ViewState) ClearSubtaskInput(goalID string) {
	state := v.Get(goalID)
	state.SubtaskText = ""
	state.SubtaskDate = ""
}

// ClearSubtaskEdit resets the subtask edit buffers.
func (v *ViewState) ClearSubtaskEdit(goalID string) {
	state := v.Get(goalID)
	state.EditingSubtaskID = ""
	state.EditSubtaskText = ""
	state.EditSubtaskDate = ""
}

// Prune drops state for goals no longer present in the loaded list.
func (v *ViewState) Prune(goals []types.MonthlyGoal) {
	live := make(map[string]bool, len(goals))
	for _, g := range goals {
		live[g.ID] = true
	}
	for id := range v.goals {
		if !live[id] {
			delete(v.goals, id)
		}
	}
}
