package model

import "time"

// Course is a course listing entry from the catalog.
type Course struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Level       string  `json:"level"`
	Duration    string  `json:"duration"`
	Price       float64 `json:"price"`
	Instructor  string  `json:"instructor"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
}

// Module is one unit of a course curriculum.
type Module struct {
	ID       string    `json:"_id"`
	Title    string    `json:"title"`
	Order    int       `json:"order"`
	Lectures []Lecture `json:"lectures"`
}

// Lecture is a single piece of course content within a module.
type Lecture struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	VideoURL string `json:"videoUrl,omitempty"`
	Duration string `json:"duration,omitempty"`
	Order    int    `json:"order"`
}

// Curriculum is the full module/lecture tree for one course.
type Curriculum struct {
	CourseID string   `json:"courseId"`
	Modules  []Module `json:"modules"`
}

// EnrollmentStatus tracks where an enrollment is in its approval flow.
type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

// Enrollment links a student to a course.
type Enrollment struct {
	ID         string           `json:"_id"`
	StudentID  string           `json:"studentId"`
	CourseID   string           `json:"courseId"`
	Status     EnrollmentStatus `json:"status"`
	EnrolledAt time.Time        `json:"enrolledAt"`
}

// Assessment is a quiz attached to a course.
type Assessment struct {
	ID        string     `json:"_id"`
	CourseID  string     `json:"courseId"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	TimeLimit int        `json:"timeLimit,omitempty"` // minutes, 0 = unlimited
}

// Question is one multiple-choice question within an assessment.
type Question struct {
	ID      string   `json:"_id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// AssessmentResult is the graded outcome of a submitted attempt.
type AssessmentResult struct {
	AssessmentID string    `json:"assessmentId"`
	Score        float64   `json:"score"`
	MaxScore     float64   `json:"maxScore"`
	Passed       bool      `json:"passed"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// CourseProgress summarizes a student's completion state for one course.
type CourseProgress struct {
	CourseID          string   `json:"courseId"`
	CompletedLectures []string `json:"completedLectures"`
	CompletedPercent  float64  `json:"completedPercent"`
}
