package api

import (
	"context"
	"fmt"

	"github.com/edupi-school/edupi-client/pkg/model"
)

// ListEnrollmentsByStudent returns a student's enrollments.
func (c *Client) ListEnrollmentsByStudent(ctx context.Context, studentID, token string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	if err := c.get(ctx, "/api/enrollments/student/"+studentID, token, &enrollments); err != nil {
		return nil, fmt.Errorf("list enrollments for %s: %w", studentID, err)
	}
	return enrollments, nil
}

// Enroll requests enrollment of a student into a course. The enrollment
// starts in the pending state until an administrator approves it.
func (c *Client) Enroll(ctx context.Context, studentID, courseID, token string) (*model.Enrollment, error) {
	body := map[string]string{"studentId": studentID, "courseId": courseID}
	var enrollment model.Enrollment
	if err := c.post(ctx, "/api/enrollments", token, body, &enrollment); err != nil {
		return nil, fmt.Errorf("enroll in %s: %w", courseID, err)
	}
	return &enrollment, nil
}

// GetCourseProgress returns the student's completion state for a course.
func (c *Client) GetCourseProgress(ctx context.Context, courseID, token string) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	if err := c.get(ctx, "/api/progress/course/"+courseID, token, &progress); err != nil {
		return nil, fmt.Errorf("get progress for %s: %w", courseID, err)
	}
	return &progress, nil
}

// CompleteLecture marks a lecture as completed.
func (c *Client) CompleteLecture(ctx context.Context, lectureID, token string) error {
	if err := c.post(ctx, "/api/progress/lecture/"+lectureID+"/complete", token, nil, nil); err != nil {
		return fmt.Errorf("complete lecture %s: %w", lectureID, err)
	}
	return nil
}

// SubmitAssessment submits answers for an assessment attempt and returns
// the graded result. Answers map question IDs to the selected option index.
func (c *Client) SubmitAssessment(ctx context.Context, assessmentID, token string, answers map[string]int) (*model.AssessmentResult, error) {
	body := map[string]any{"answers": answers}
	var result model.AssessmentResult
	if err := c.post(ctx, "/api/progress/assessment/"+assessmentID+"/attempt", token, body, &result); err != nil {
		return nil, fmt.Errorf("submit assessment %s: %w", assessmentID, err)
	}
	return &result, nil
}
