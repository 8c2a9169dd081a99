// Package apperrors defines the error kinds shared by every service. Each
// kind is a sentinel that descriptive errors wrap with %w, so callers can
// branch with errors.Is on either the kind or the specific error.
package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP layer maps each kind to a status code.
var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrInvalidState     = errors.New("invalid state")
)

var (
	// User errors
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
	ErrInvalidRole  = fmt.Errorf("%w: role must be Student or Tutor", ErrValidation)

	// Course errors
	ErrCourseNotFound = fmt.Errorf("%w: course", ErrNotFound)
	ErrLessonNotFound = fmt.Errorf("%w: lesson", ErrNotFound)
	ErrNotCourseOwner = fmt.Errorf("%w: course belongs to another tutor", ErrPermissionDenied)

	// Enrollment errors
	ErrEnrollmentNotFound = fmt.Errorf("%w: enrollment", ErrNotFound)
	ErrAlreadyEnrolled    = fmt.Errorf("%w: a live enrollment already exists for this course", ErrConflict)
	ErrNotEnrolled        = fmt.Errorf("%w: student is not approved for this course", ErrPermissionDenied)

	// Lesson access errors
	ErrLessonLocked = fmt.Errorf("%w: complete the previous lesson first", ErrInvalidState)

	// Booking errors
	ErrSlotNotFound = fmt.Errorf("%w: availability slot", ErrNotFound)
	ErrSlotTaken    = fmt.Errorf("%w: slot no longer available", ErrConflict)
)
