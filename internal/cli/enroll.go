package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newEnrollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enroll <course-id>",
		Short: "Enroll in a course",
		Long:  "Request enrollment in a course. Enrollments start pending and are approved by an administrator.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions.Verify(cmd.Context())
			snap := sessions.Snapshot()
			if !snap.IsStudent() {
				return fmt.Errorf("enrollment requires a student login")
			}
			token, err := requireToken()
			if err != nil {
				return err
			}

			// Without a course ID, list the student's own enrollments.
			if len(args) == 0 {
				enrollments, err := client.ListEnrollmentsByStudent(cmd.Context(), snap.Actor.ID(), token)
				if err != nil {
					return fmt.Errorf("list enrollments: %w", err)
				}
				if len(enrollments) == 0 {
					printf("No enrollments yet.\n")
					return nil
				}
				printf("%-26s  %-10s  %s\n", "COURSE", "STATUS", "ENROLLED")
				for _, e := range enrollments {
					printf("%-26s  %-10s  %s\n", e.CourseID, e.Status, humanize.Time(e.EnrolledAt))
				}
				return nil
			}

			enrollment, err := client.Enroll(cmd.Context(), snap.Actor.ID(), args[0], token)
			if err != nil {
				return fmt.Errorf("enroll: %w", err)
			}
			printf("Enrollment requested (status: %s)\n", enrollment.Status)
			return nil
		},
	}
	return cmd
}
