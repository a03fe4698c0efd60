package planner

import (
	"context"
	"errors"
	"time"

	"github.com/planbook/planbook/internal/types"
)

var (
	// ErrGoalNotLoaded means the goal is absent from the last fetched
	// snapshot; Refresh before mutating.
	ErrGoalNotLoaded = errors.New("goal not loaded")

	// ErrSubtaskNotFound means the addressed subtask does not exist in the
	// loaded copy of its goal.
	ErrSubtaskNotFound = errors.New("subtask not found")
)

// Controller orchestrates fetch-derive-mutate cycles against a planbook
// server. It holds a transient copy of the goal list that is stale after any
// mutation; every successful mutation re-fetches, and a failed mutation
// leaves the loaded state untouched.
//
// Subtask mutations rebuild the parent's whole subtask sequence from the
// loaded copy and submit it as one replace. Two controllers racing on the
// same goal resolve as last writer wins; there is no conflict detection.
type Controller struct {
	client *Client
	goals  []types.MonthlyGoal
	now    func() time.Time
}

// NewController creates a controller with no loaded state. Call Refresh
// before reading views.
func NewController(client *Client) *Controller {
	return &Controller{
		client: client,
		goals:  []types.MonthlyGoal{},
		now:    time.Now,
	}
}

// Refresh replaces the loaded goal list with a full re-fetch.
func (c *Controller) Refresh(ctx context.Context) error {
	goals, err := c.client.ListGoals(ctx)
	if err != nil {
		return err
	}
	if goals == nil {
		goals = []types.MonthlyGoal{}
	}
	c.goals = goals
	return nil
}

// Goals returns the loaded goal list, newest first.
func (c *Controller) Goals() []types.MonthlyGoal {
	return c.goals
}

// Goal returns the loaded copy of one goal.
func (c *Controller) Goal(goalID string) (*types.MonthlyGoal, error) {
	for i := range c.goals {
		if c.goals[i].ID == goalID {
			return &c.goals[i], nil
		}
	}
	return nil, ErrGoalNotLoaded
}

// Progress returns the loaded goal's completion percentage.
func (c *Controller) Progress(goalID string) (int, error) {
	goal, err := c.Goal(goalID)
	if err != nil {
		return 0, err
	}
	return Progress(*goal), nil
}

// FilterSubtasksByDate filters the loaded goals' subtasks by date range.
func (c *Controller) FilterSubtasksByDate(startDate, endDate string) []TaggedSubtask {
	return FilterSubtasksByDate(c.goals, startDate, endDate)
}

// DailyTasks returns the aggregated daily list derived from loaded goals.
func (c *Controller) DailyTasks(opts DailyOptions) []DailyTask {
	return DailyTasks(c.goals, c.now().Format("2006-01-02"), opts)
}

// CreateGoal creates a goal and refreshes.
func (c *Controller) CreateGoal(ctx context.Context, goal types.NewMonthlyGoal) (*types.MonthlyGoal, error) {
	created, err := c.client.CreateGoal(ctx, goal)
	if err != nil {
		return nil, err
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// EditGoal updates a goal's own fields, leaving subtasks as stored.
func (c *Controller) EditGoal(ctx context.Context, goalID, text, dueMonth, dueDays string) error {
	_, err := c.client.UpdateGoal(ctx, goalID, types.GoalPatch{
		Text:     &text,
		DueMonth: &dueMonth,
		DueDays:  &dueDays,
	})
	if err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// DeleteGoal deletes a goal and refreshes.
func (c *Controller) DeleteGoal(ctx context.Context, goalID string) error {
	if err := c.client.DeleteGoal(ctx, goalID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// AddSubtask appends a subtask to the loaded copy of the goal and submits
// the full sequence.
func (c *Controller) AddSubtask(ctx context.Context, goalID, text, date string) error {
	goal, err := c.Goal(goalID)
	if err != nil {
		return err
	}

	subtasks := append(cloneSubtasks(goal.Subtasks), types.Subtask{
		Text: text,
		Date: date,
	})
	return c.replaceSubtasks(ctx, goalID, subtasks)
}

// ToggleSubtask flips the completion flag of the subtask with the given ID.
func (c *Controller) ToggleSubtask(ctx context.Context, goalID, subtaskID string) error {
	return c.mutateSubtask(ctx, goalID, byID(subtaskID), func(st *types.Subtask) {
		st.Completed = !st.Completed
	})
}

// ToggleSubtaskAt flips completion by array position in the loaded copy.
func (c *Controller) ToggleSubtaskAt(ctx context.Context, goalID string, index int) error {
	return c.mutateSubtask(ctx, goalID, byIndex(index), func(st *types.Subtask) {
		st.Completed = !st.Completed
	})
}

// EditSubtask rewrites the text and date of the subtask with the given ID.
func (c *Controller) EditSubtask(ctx context.Context, goalID, subtaskID, text, date string) error {
	return c.mutateSubtask(ctx, goalID, byID(subtaskID), func(st *types.Subtask) {
		st.Text = text
		st.Date = date
	})
}

// EditSubtaskAt rewrites text and date by array position in the loaded copy.
func (c *Controller) EditSubtaskAt(ctx context.Context, goalID string, index int, text, date string) error {
	return c.mutateSubtask(ctx, goalID, byIndex(index), func(st *types.Subtask) {
		st.Text = text
		st.Date = date
	})
}

// DeleteSubtask removes the subtask with the given ID.
func (c *Controller) DeleteSubtask(ctx context.Context, goalID, subtaskID string) error {
	return c.removeSubtask(ctx, goalID, byID(subtaskID))
}

// DeleteSubtaskAt removes a subtask by array position in the loaded copy.
func (c *Controller) DeleteSubtaskAt(ctx context.Context, goalID string, index int) error {
	return c.removeSubtask(ctx, goalID, byIndex(index))
}

// subtaskLocator resolves a subtask to its position, or -1.
type subtaskLocator func(subtasks []types.Subtask) int

func byID(subtaskID string) subtaskLocator {
	return func(subtasks []types.Subtask) int {
		for i := range subtasks {
			if subtasks[i].ID == subtaskID {
				return i
			}
		}
		return -1
	}
}

func byIndex(index int) subtaskLocator {
	return func(subtasks []types.Subtask) int {
		if index < 0 || index >= len(subtasks) {
			return -1
		}
		return index
	}
}

func (c *Controller) mutateSubtask(ctx context.Context, goalID string, locate subtaskLocator, mutate func(*types.Subtask)) error {
	goal, err := c.Goal(goalID)
	if err != nil {
		return err
	}

	subtasks := cloneSubtasks(goal.Subtasks)
	i := locate(subtasks)
	if i < 0 {
		return ErrSubtaskNotFound
	}
	mutate(&subtasks[i])

	return c.replaceSubtasks(ctx, goalID, subtasks)
}

func (c *Controller) removeSubtask(ctx context.Context, goalID string, locate subtaskLocator) error {
	goal, err := c.Goal(goalID)
	if err != nil {
		return err
	}

	subtasks := cloneSubtasks(goal.Subtasks)
	i := locate(subtasks)
	if i < 0 {
		return ErrSubtaskNotFound
	}
	subtasks = append(subtasks[:i], subtasks[i+1:]...)

	return c.replaceSubtasks(ctx, goalID, subtasks)
}

func (c *Controller) replaceSubtasks(ctx context.Context, goalID string, subtasks []types.Subtask) error {
	if _, err := c.client.UpdateGoal(ctx, goalID, types.GoalPatch{Subtasks: &subtasks}); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

func cloneSubtasks(subtasks []types.Subtask) []types.Subtask {
	cloned := make([]types.Subtask, len(subtasks))
	copy(cloned, subtasks)
	return cloned
}
