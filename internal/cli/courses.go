package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCoursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Browse the course catalog",
	}
	cmd.AddCommand(
		newCoursesListCmd(),
		newCoursesShowCmd(),
		newCoursesProgressCmd(),
		newCompleteLectureCmd(),
	)
	return cmd
}

func newCoursesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := client.ListCourses(cmd.Context())
			if err != nil {
				return fmt.Errorf("list courses: %w", err)
			}
			if len(courses) == 0 {
				printf("No courses found.\n")
				return nil
			}

			printf("%-26s  %-30s  %-12s  %-10s  %s\n", "ID", "TITLE", "CATEGORY", "LEVEL", "INSTRUCTOR")
			printf("%-26s  %-30s  %-12s  %-10s  %s\n", "--", "-----", "--------", "-----", "----------")
			for _, c := range courses {
				printf("%-26s  %-30s  %-12s  %-10s  %s\n", c.ID, c.Title, c.Category, c.Level, c.Instructor)
			}
			return nil
		},
	}
}

func newCoursesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <course-id>",
		Short: "Show a course and its curriculum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := client.GetCourse(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get course: %w", err)
			}

			printf("%s\n", course.Title)
			printf("  %s\n", course.Description)
			printf("  category: %s   level: %s   duration: %s\n", course.Category, course.Level, course.Duration)
			printf("  instructor: %s   price: %.2f\n", course.Instructor, course.Price)

			// The curriculum endpoint needs an authenticated call; skip it
			// quietly for anonymous users.
			token := bearerToken()
			if token == "" {
				return nil
			}

			curriculum, err := client.GetCurriculum(cmd.Context(), course.ID, token)
			if err != nil {
				return fmt.Errorf("get curriculum: %w", err)
			}
			for _, mod := range curriculum.Modules {
				printf("\n  Module %d: %s\n", mod.Order, mod.Title)
				for _, lec := range mod.Lectures {
					printf("    %2d. %s", lec.Order, lec.Title)
					if lec.Duration != "" {
						printf(" (%s)", lec.Duration)
					}
					printf("\n")
				}
			}
			return nil
		},
	}
}

func newCoursesProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <course-id>",
		Short: "Show completion progress for a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}

			progress, err := client.GetCourseProgress(cmd.Context(), args[0], token)
			if err != nil {
				return fmt.Errorf("get progress: %w", err)
			}
			printf("Completed: %.0f%% (%d lectures)\n", progress.CompletedPercent, len(progress.CompletedLectures))
			return nil
		},
	}
}

func newCompleteLectureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <lecture-id>",
		Short: "Mark a lecture as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}
			if err := client.CompleteLecture(cmd.Context(), args[0], token); err != nil {
				return fmt.Errorf("complete lecture: %w", err)
			}
			printf("Lecture marked as completed.\n")
			return nil
		},
	}
}
