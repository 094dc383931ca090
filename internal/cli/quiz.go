package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take course assessments",
	}
	cmd.AddCommand(newQuizListCmd(), newQuizSubmitCmd())
	return cmd
}

func newQuizListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <course-id>",
		Short: "List assessments for a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}

			assessments, err := client.ListAssessments(cmd.Context(), args[0], token)
			if err != nil {
				return fmt.Errorf("list assessments: %w", err)
			}
			if len(assessments) == 0 {
				printf("No assessments for this course.\n")
				return nil
			}

			for _, a := range assessments {
				printf("%s  %s (%d questions", a.ID, a.Title, len(a.Questions))
				if a.TimeLimit > 0 {
					printf(", %d min", a.TimeLimit)
				}
				printf(")\n")
			}
			return nil
		},
	}
}

func newQuizSubmitCmd() *cobra.Command {
	var answersFile string

	cmd := &cobra.Command{
		Use:   "submit <assessment-id>",
		Short: "Submit assessment answers",
		Long:  "Submit answers from a JSON file mapping question IDs to selected option indexes, e.g. {\"q1\": 2, \"q2\": 0}.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(answersFile)
			if err != nil {
				return fmt.Errorf("read answers file: %w", err)
			}
			var answers map[string]int
			if err := json.Unmarshal(data, &answers); err != nil {
				return fmt.Errorf("parse answers file: %w", err)
			}
			if len(answers) == 0 {
				return fmt.Errorf("answers file is empty")
			}

			result, err := client.SubmitAssessment(cmd.Context(), args[0], token, answers)
			if err != nil {
				return fmt.Errorf("submit assessment: %w", err)
			}

			printf("Score: %.1f / %.1f\n", result.Score, result.MaxScore)
			if result.Passed {
				printf("Passed!\n")
			} else {
				printf("Not passed.\n")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&answersFile, "answers", "", "Path to JSON answers file (required)")
	cmd.MarkFlagRequired("answers")
	return cmd
}
