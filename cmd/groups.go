package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moyklass/moyklass"
)

var (
	courseList moyklass.CourseListParams
	classList  moyklass.ClassListParams
)

// groupsCmd represents the groups command
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Inspect courses and groups",
}

var groupsCoursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context) error {
			resp, err := client.Groups.Courses(ctx, &courseList)
			if err != nil {
				return err
			}
			return printList(ctx, resp, "")
		})
	},
}

var groupsClassesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context) error {
			resp, err := client.Groups.Classes(ctx, &classList)
			if err != nil {
				return err
			}
			return printList(ctx, resp, "")
		})
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	groupsCmd.AddCommand(groupsCoursesCmd, groupsClassesCmd)

	groupsCoursesCmd.Flags().BoolVar(&courseList.IncludeClasses, "include-classes", false, "include the groups of each course")
	groupsCoursesCmd.Flags().BoolVar(&courseList.IncludeImages, "include-images", false, "include images")

	groupsClassesCmd.Flags().BoolVar(&classList.IncludeImages, "include-images", false, "include images")
	groupsClassesCmd.Flags().BoolVar(&classList.IncludeAttributes, "include-attributes", false, "include custom attributes")
}
