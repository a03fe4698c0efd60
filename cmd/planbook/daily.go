package main

import (
	"fmt"

	"github.com/planbook/planbook/pkg/planner"
	"github.com/spf13/cobra"
)

var (
	dailyAddr   string
	dailyJSON   bool
	dailyMonth  string
	dailyStatus string
	dailySearch string
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show the aggregated daily task list",
	Long:  "Aggregate goals and their subtasks into a single dated task list, optionally filtered by month, status, or a search query.",
	Args:  cobra.NoArgs,
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
	dailyCmd.Flags().StringVar(&dailyAddr, "addr", "http://localhost:8080",
		"Server address")
	dailyCmd.Flags().BoolVar(&dailyJSON, "json", false,
		"Output in JSON format")
	dailyCmd.Flags().StringVar(&dailyMonth, "month", "",
		"Filter by due month (e.g. March)")
	dailyCmd.Flags().StringVar(&dailyStatus, "status", "all",
		"Filter by status: all, completed, incomplete")
	dailyCmd.Flags().StringVar(&dailySearch, "search", "",
		"Filter by case-insensitive text match")
}

func runDaily(cmd *cobra.Command, args []string) error {
	status := planner.StatusFilter(dailyStatus)
	switch status {
	case planner.StatusAll, planner.StatusCompleted, planner.StatusIncomplete:
	default:
		return fmt.Errorf("invalid status %q: must be all, completed, or incomplete", dailyStatus)
	}

	ctrl := planner.NewController(resolveClient(dailyAddr))
	if err := ctrl.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("fetch goals: %w", err)
	}

	tasks := ctrl.DailyTasks(planner.DailyOptions{
		Month:  dailyMonth,
		Status: status,
		Search: dailySearch,
	})

	if dailyJSON {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"tasks": tasks,
			"total": len(tasks),
		})
	}

	if len(tasks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "DATE\tSTATUS\tTASK\tGOAL\tMONTH")
	for _, task := range tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		parent := task.ParentGoalName
		if !task.IsSubtask {
			parent = "-"
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\t%s\n",
			task.Date,
			mark,
			task.Text,
			parent,
			task.ParentDueMonth,
		)
	}
	w.Flush()

	return nil
}
