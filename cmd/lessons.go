package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moyklass/moyklass"
)

var (
	lessonList     moyklass.LessonListParams
	lessonStatusID int
	lessonUserID   int
)

// lessonsCmd represents the lessons command
var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Inspect lessons",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lessons",
	Args:  cobra.NoArgs,
	RunE:  runLessonsList,
}

func init() {
	rootCmd.AddCommand(lessonsCmd)
	lessonsCmd.AddCommand(lessonsListCmd)

	f := lessonsListCmd.Flags()
	f.StringSliceVar(&lessonList.Date, "date", nil, "lesson date or date range")
	f.IntSliceVar(&lessonList.LessonID, "lesson-id", nil, "lesson IDs")
	f.IntSliceVar(&lessonList.RoomID, "room-id", nil, "room IDs")
	f.IntSliceVar(&lessonList.FilialID, "filial-id", nil, "branch IDs")
	f.IntSliceVar(&lessonList.ClassID, "class-id", nil, "group IDs")
	f.IntSliceVar(&lessonList.TeacherID, "teacher-id", nil, "teacher IDs")
	f.IntVar(&lessonStatusID, "status-id", 0, "lesson status")
	f.IntVar(&lessonUserID, "user-id", 0, "only lessons with this user enrolled")
	f.BoolVar(&lessonList.IncludeRecords, "include-records", false, "include attendance records")
	f.BoolVar(&lessonList.IncludeMarks, "include-marks", false, "include marks")
	f.BoolVar(&lessonList.IncludeTasks, "include-tasks", false, "include homework")
	f.BoolVar(&lessonList.IncludeTaskAnswers, "include-task-answers", false, "include homework answers")
	f.BoolVar(&lessonList.IncludeUserSubscriptions, "include-user-subscriptions", false, "include subscriptions used")
	f.BoolVar(&lessonList.IncludeParams, "include-params", false, "include lesson parameters")
	addPageFlags(lessonsListCmd, &lessonList.Page)
}

func runLessonsList(cmd *cobra.Command, args []string) error {
	params := lessonList
	params.StatusID = optInt(cmd, "status-id", lessonStatusID)
	params.UserID = optInt(cmd, "user-id", lessonUserID)

	return withSession(cmd, func(ctx context.Context) error {
		resp, err := client.Lessons.List(ctx, &params)
		if err != nil {
			return err
		}
		return printList(ctx, resp, "lessons")
	})
}
