package main

import (
	"fmt"
	"text/tabwriter"

	"skills-matrix/internal/domain/matrix"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var activityLimit int

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the most recent matrix changes",
	Args:  cobra.NoArgs,
	RunE:  runActivity,
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 50, "Number of entries to show (max 500)")
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := openContainer(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	items, err := c.Activity.ListRecentActivity(ctx, activityLimit)
	if err != nil {
		return err
	}
	printActivity(cmd, items)
	return nil
}

func printActivity(cmd *cobra.Command, items []matrix.ActivityRecord) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "no activity recorded")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTOR\tACTION\tENTITY\tDETAIL")
	for _, a := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.OccurredAt.UTC().Format("2006-01-02 15:04:05"),
			a.Actor,
			actionColor(a.Action).Sprint(a.Action),
			a.EntityType,
			a.Detail,
		)
	}
	_ = tw.Flush()
}

func actionColor(action string) *color.Color {
	switch action {
	case matrix.ActionDepartmentDelete, matrix.ActionEmployeeDelete, matrix.ActionSkillDelete:
		return color.New(color.FgRed)
	case matrix.ActionDepartmentCreate, matrix.ActionEmployeeCreate, matrix.ActionSkillCreate:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgCyan)
	}
}
