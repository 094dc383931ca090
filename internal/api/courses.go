package api

import (
	"context"
	"fmt"

	"github.com/edupi-school/edupi-client/pkg/model"
)

// ListCourses returns the public course catalog.
func (c *Client) ListCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := c.get(ctx, "/api/courses", "", &courses); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// GetCourse returns one course by ID.
func (c *Client) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := c.get(ctx, "/api/courses/"+id, "", &course); err != nil {
		return nil, fmt.Errorf("get course %s: %w", id, err)
	}
	return &course, nil
}

// GetCurriculum returns the module/lecture tree for a course.
func (c *Client) GetCurriculum(ctx context.Context, courseID, token string) (*model.Curriculum, error) {
	var cur model.Curriculum
	if err := c.get(ctx, "/api/curriculum/course/"+courseID, token, &cur); err != nil {
		return nil, fmt.Errorf("get curriculum for %s: %w", courseID, err)
	}
	return &cur, nil
}

// ListAssessments returns the assessments attached to a course.
func (c *Client) ListAssessments(ctx context.Context, courseID, token string) ([]model.Assessment, error) {
	var assessments []model.Assessment
	if err := c.get(ctx, "/api/assessments/course/"+courseID, token, &assessments); err != nil {
		return nil, fmt.Errorf("list assessments for %s: %w", courseID, err)
	}
	return assessments, nil
}
