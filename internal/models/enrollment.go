package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentApproved  EnrollmentStatus = "approved"
	EnrollmentRejected  EnrollmentStatus = "rejected"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Live reports whether the status counts against the one-live-enrollment
// invariant. Rejected and cancelled enrollments are kept for audit but do
// not block a new request.
func (s EnrollmentStatus) Live() bool {
	return s == EnrollmentPending || s == EnrollmentApproved
}

// Terminal reports whether the status admits no further transitions.
func (s EnrollmentStatus) Terminal() bool {
	return s == EnrollmentApproved || s == EnrollmentRejected || s == EnrollmentCancelled
}

// Enrollment records a student's request to join a course and its outcome.
// CreatedAt orders successive enrollments for the same (student, course)
// pair, so listings can prefer the most recent terminal outcome.
type Enrollment struct {
	ID        string           `json:"id" mapstructure:"id,omitempty"`
	StudentID string           `json:"studentId" mapstructure:"studentId"`
	CourseID  string           `json:"courseId" mapstructure:"courseId"`
	Status    EnrollmentStatus `json:"status" mapstructure:"status"`
	CreatedAt time.Time        `json:"createdAt" mapstructure:"createdAt"`
}

// Submission is the append-only fact that a student completed a lesson.
// At most one exists per (lesson, student) pair.
type Submission struct {
	LessonID    string    `json:"lessonId" mapstructure:"lessonId"`
	StudentID   string    `json:"userId" mapstructure:"userId"`
	SubmittedAt time.Time `json:"submittedAt" mapstructure:"submittedAt"`
}
