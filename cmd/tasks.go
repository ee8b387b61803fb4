package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moyklass/moyklass"
)

var (
	task         moyklass.TaskParams
	taskUserID   int
	taskOwnerID  int
	taskCategory int
)

// tasksCmd represents the tasks command
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage tasks",
}

var tasksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	Args:  cobra.NoArgs,
	RunE:  runTasksCreate,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksCreateCmd)

	f := tasksCreateCmd.Flags()
	f.StringVar(&task.Body, "body", "", "task text")
	f.StringVar(&task.BeginDate, "begin", "", "start (YYYY-MM-DDTHH:MM:SS)")
	f.StringVar(&task.EndDate, "end", "", "end (YYYY-MM-DDTHH:MM:SS)")
	f.BoolVar(&task.IsAllDay, "all-day", false, "all-day task")
	f.BoolVar(&task.IsComplete, "complete", false, "create the task as completed")
	f.IntSliceVar(&task.Reminds, "remind", nil, "reminder offsets in minutes")
	f.IntSliceVar(&task.ManagerIDs, "manager-id", nil, "assigned manager IDs")
	f.IntVar(&taskUserID, "user-id", 0, "related user ID")
	f.IntVar(&taskOwnerID, "owner-id", 0, "task owner ID")
	f.IntSliceVar(&task.ClassIDs, "class-id", nil, "related group IDs")
	f.IntSliceVar(&task.FilialIDs, "filial-id", nil, "branch IDs")
	f.IntVar(&taskCategory, "category-id", 0, "task category ID")
	for _, name := range []string{"body", "begin", "end"} {
		_ = tasksCreateCmd.MarkFlagRequired(name)
	}
}

func runTasksCreate(cmd *cobra.Command, args []string) error {
	params := task
	params.UserID = optInt(cmd, "user-id", taskUserID)
	params.OwnerID = optInt(cmd, "owner-id", taskOwnerID)
	params.CategoryID = optInt(cmd, "category-id", taskCategory)

	return withSession(cmd, func(ctx context.Context) error {
		resp, err := client.Tasks.Create(ctx, &params)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		okLabel.Fprintln(cmd.ErrOrStderr(), "✓ Task created")
		return printObject(resp)
	})
}
