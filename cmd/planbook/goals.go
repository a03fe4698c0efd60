package main

import (
	"fmt"

	"github.com/planbook/planbook/pkg/planner"
	"github.com/spf13/cobra"
)

var (
	goalsAddr string
	goalsJSON bool
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List monthly goals with progress",
	Args:  cobra.NoArgs,
	RunE:  runGoals,
}

func init() {
	rootCmd.AddCommand(goalsCmd)
	goalsCmd.Flags().StringVar(&goalsAddr, "addr", "http://localhost:8080",
		"Server address")
	goalsCmd.Flags().BoolVar(&goalsJSON, "json", false,
		"Output in JSON format")
}

func runGoals(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ctrl := planner.NewController(resolveClient(goalsAddr))
	if err := ctrl.Refresh(ctx); err != nil {
		return fmt.Errorf("fetch goals: %w", err)
	}
	goals := ctrl.Goals()

	if goalsJSON {
		items := make([]map[string]any, len(goals))
		for i, g := range goals {
			items[i] = map[string]any{
				"id":        g.ID,
				"text":      g.Text,
				"dueMonth":  g.DueMonth,
				"dueDays":   g.DueDays,
				"subtasks":  len(g.Subtasks),
				"progress":  planner.Progress(g),
				"completed": planner.AllSubtasksCompleted(g),
			}
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"goals": items,
			"total": len(items),
		})
	}

	if len(goals) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No goals found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tGOAL\tDUE\tSUBTASKS\tPROGRESS")
	for _, g := range goals {
		done := 0
		for _, st := range g.Subtasks {
			if st.Completed {
				done++
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%d/%d\t%d%%\n",
			g.ID,
			g.Text,
			g.DueMonth,
			g.DueDays,
			done,
			len(g.Subtasks),
			planner.Progress(g),
		)
	}
	w.Flush()

	return nil
}
