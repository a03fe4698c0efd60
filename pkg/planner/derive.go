package planner

import (
	"math"
	"sort"
	"strings"

	"github.com/planbook/planbook/internal/types"
)

// StatusFilter narrows the daily task list by completion state.
type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusCompleted  StatusFilter = "completed"
	StatusIncomplete StatusFilter = "incomplete"
)

// TaggedSubtask is a subtask flattened out of its parent goal, carrying
// enough parent context to render on its own. Index is the subtask's
// position in the parent's sequence at flatten time.
type TaggedSubtask struct {
	types.Subtask
	ParentGoal    string
	ParentDueDays string
	GoalID        string
	Index         int
}

// DailyTask is one row of the aggregated daily list: either a synthetic
// task standing in for a whole goal, or a single subtask tagged with its
// parent. Date is the effective date used for sorting.
type DailyTask struct {
	ID             string `json:"id"`
	GoalID         string `json:"goalId"`
	Text           string `json:"text"`
	Completed      bool   `json:"completed"`
	IsSubtask      bool   `json:"isSubtask"`
	ParentGoalName string `json:"parentGoalName,omitempty"`
	ParentDueMonth string `json:"parentDueMonth"`
	ParentDueDays  string `json:"parentDueDays"`
	Date           string `json:"date"`
}

// DailyOptions filters the aggregated daily task list. Zero values apply no
// filtering (Status defaults to all).
type DailyOptions struct {
	Month  string
	Status StatusFilter
	Search string
}

// Progress returns the percentage of a goal's subtasks marked completed,
// rounded half away from zero. A goal with no subtasks is at 0.
func Progress(goal types.MonthlyGoal) int {
	if len(goal.Subtasks) == 0 {
		return 0
	}
	completed := 0
	for _, st := range goal.Subtasks {
		if st.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(goal.Subtasks)) * 100))
}

// AllSubtasksCompleted reports a goal's derived completion: true iff the
// goal has at least one subtask and every one is completed. A goal with no
// subtasks is never complete.
func AllSubtasksCompleted(goal types.MonthlyGoal) bool {
	if len(goal.Subtasks) == 0 {
		return false
	}
	for _, st := range goal.Subtasks {
		if !st.Completed {
			return false
		}
	}
	return true
}

// FlattenSubtasks collects every subtask across all goals, tagged with its
// parent's context.
func FlattenSubtasks(goals []types.MonthlyGoal) []TaggedSubtask {
	flattened := []TaggedSubtask{}
	for _, goal := range goals {
		for i, st := range goal.Subtasks {
			flattened = append(flattened, TaggedSubtask{
				Subtask:       st,
				ParentGoal:    goal.Text,
				ParentDueDays: goal.DueDays,
				GoalID:        goal.ID,
				Index:         i,
			})
		}
	}
	return flattened
}

// FilterSubtasksByDate returns the subtasks whose date falls within the
// inclusive [startDate, endDate] bounds. An empty bound is open on that
// side, but both bounds empty means no criteria and yields an empty result,
// not everything. Dateless subtasks never match. Dates are YYYY-MM-DD
// strings, so plain string comparison orders them.
func FilterSubtasksByDate(goals []types.MonthlyGoal, startDate, endDate string) []TaggedSubtask {
	if startDate == "" && endDate == "" {
		return []TaggedSubtask{}
	}

	filtered := []TaggedSubtask{}
	for _, st := range FlattenSubtasks(goals) {
		if st.Date == "" {
			continue
		}
		if startDate != "" && st.Date < startDate {
			continue
		}
		if endDate != "" && st.Date > endDate {
			continue
		}
		filtered = append(filtered, st)
	}
	return filtered
}

// DailyTasks builds the aggregated daily list from the goals: one synthetic
// task per goal whose completed flag is the goal's derived completion, plus
// one task per subtask. Month, status, and search filters apply in that
// order; the result is sorted ascending by effective date. fetchDay stands
// in for subtasks with no date.
func DailyTasks(goals []types.MonthlyGoal, fetchDay string, opts DailyOptions) []DailyTask {
	tasks := []DailyTask{}

	for _, goal := range goals {
		tasks = append(tasks, DailyTask{
			ID:             goal.ID,
			GoalID:         goal.ID,
			Text:           goal.Text,
			Completed:      AllSubtasksCompleted(goal),
			IsSubtask:      false,
			ParentGoalName: "",
			ParentDueMonth: goal.DueMonth,
			ParentDueDays:  goal.DueDays,
			Date:           goal.CreatedAt.Format("2006-01-02"),
		})
	}

	for _, goal := range goals {
		for _, st := range goal.Subtasks {
			date := st.Date
			if date == "" {
				date = fetchDay
			}
			tasks = append(tasks, DailyTask{
				ID:             st.ID,
				GoalID:         goal.ID,
				Text:           st.Text,
				Completed:      st.Completed,
				IsSubtask:      true,
				ParentGoalName: goal.Text,
				ParentDueMonth: goal.DueMonth,
				ParentDueDays:  goal.DueDays,
				Date:           date,
			})
		}
	}

	if opts.Month != "" {
		tasks = filterTasks(tasks, func(t DailyTask) bool {
			return t.ParentDueMonth == opts.Month
		})
	}

	switch opts.Status {
	case StatusCompleted:
		tasks = filterTasks(tasks, func(t DailyTask) bool { return t.Completed })
	case StatusIncomplete:
		tasks = filterTasks(tasks, func(t DailyTask) bool { return !t.Completed })
	}

	if opts.Search != "" {
		query := strings.ToLower(opts.Search)
		tasks = filterTasks(tasks, func(t DailyTask) bool {
			return strings.Contains(strings.ToLower(t.Text), query) ||
				strings.Contains(strings.ToLower(t.ParentGoalName), query) ||
				strings.Contains(strings.ToLower(t.ParentDueMonth), query)
		})
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Date < tasks[j].Date
	})

	return tasks
}

func filterTasks(tasks []DailyTask, keep func(DailyTask) bool) []DailyTask {
	filtered := tasks[:0:0]
	for _, t := range tasks {
		if keep(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
