// Package enrollment owns the enrollment request lifecycle: request,
// approve, reject, cancel. Rejections and cancellations are terminal status
// transitions rather than deletes, so the history stays auditable and
// retried calls can recognize an already-applied outcome.
package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/chaos156/elearning/internal/apperrors"
	"github.com/chaos156/elearning/internal/models"
	"github.com/chaos156/elearning/internal/store"
)

type Ledger struct {
	store store.Store
}

func NewLedger(s store.Store) *Ledger {
	return &Ledger{store: s}
}

// Request creates a pending enrollment for the (student, course) pair.
// At most one live (pending or approved) enrollment may exist per pair;
// a second request while one is live fails with ErrAlreadyEnrolled.
// Rejected and cancelled enrollments do not block a new request. The
// duplicate check and the create run in one transaction so concurrent
// requests cannot both slip past the check.
func (l *Ledger) Request(ctx context.Context, studentID, courseID string) (string, error) {
	if studentID == "" || courseID == "" {
		return "", apperrors.ErrValidation
	}

	var enrollmentID string
	err := l.store.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.Get(models.FirestoreCoursesCollection, courseID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrCourseNotFound
			}
			return err
		}

		existing, err := tx.Query(models.FirestoreEnrollmentsCollection,
			store.Filter{Field: "studentId", Value: studentID},
			store.Filter{Field: "courseId", Value: courseID},
		)
		if err != nil {
			return err
		}
		for _, doc := range existing {
			e, err := decode(doc)
			if err != nil {
				return err
			}
			if e.Status.Live() {
				return apperrors.ErrAlreadyEnrolled
			}
		}

		enrollmentID, err = tx.Create(models.FirestoreEnrollmentsCollection, map[string]interface{}{
			"studentId": studentID,
			"courseId":  courseID,
			"status":    string(models.EnrollmentPending),
			"createdAt": time.Now(),
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return enrollmentID, nil
}

// Approve transitions a pending enrollment to approved. Only the tutor who
// owns the course may approve. Approving an already-approved enrollment is
// a no-op, so a retried call after a timeout cannot fail spuriously.
func (l *Ledger) Approve(ctx context.Context, enrollmentID, actingTutorID string) error {
	return l.transition(ctx, enrollmentID, models.EnrollmentApproved, func(e *models.Enrollment, courseTutorID string) error {
		if courseTutorID != actingTutorID {
			return apperrors.ErrNotCourseOwner
		}
		return nil
	})
}

// Reject transitions a pending enrollment to rejected, with the same
// ownership check and retry semantics as Approve.
func (l *Ledger) Reject(ctx context.Context, enrollmentID, actingTutorID string) error {
	return l.transition(ctx, enrollmentID, models.EnrollmentRejected, func(e *models.Enrollment, courseTutorID string) error {
		if courseTutorID != actingTutorID {
			return apperrors.ErrNotCourseOwner
		}
		return nil
	})
}

// Cancel transitions a pending enrollment to cancelled. Only the owning
// student may cancel, and an approved enrollment cannot be cancelled.
func (l *Ledger) Cancel(ctx context.Context, enrollmentID, studentID string) error {
	return l.transition(ctx, enrollmentID, models.EnrollmentCancelled, func(e *models.Enrollment, courseTutorID string) error {
		if e.StudentID != studentID {
			return apperrors.ErrPermissionDenied
		}
		return nil
	})
}

// transition runs a Pending -> target state change inside a store
// transaction. The authorize callback sees the decoded enrollment and the
// owning course's tutor ID. If the enrollment is already in the target
// state the call succeeds silently; any other terminal state fails with
// ErrInvalidState.
func (l *Ledger) transition(ctx context.Context, enrollmentID string, target models.EnrollmentStatus, authorize func(e *models.Enrollment, courseTutorID string) error) error {
	return l.store.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		doc, err := tx.Get(models.FirestoreEnrollmentsCollection, enrollmentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrEnrollmentNotFound
			}
			return err
		}
		e, err := decode(doc)
		if err != nil {
			return err
		}

		courseDoc, err := tx.Get(models.FirestoreCoursesCollection, e.CourseID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrCourseNotFound
			}
			return err
		}
		var course models.Course
		if err := courseDoc.DataTo(&course); err != nil {
			return err
		}

		if err := authorize(e, course.TutorID); err != nil {
			return err
		}

		switch e.Status {
		case target:
			// Retry of an already-applied transition.
			return nil
		case models.EnrollmentPending:
			return tx.Update(models.FirestoreEnrollmentsCollection, enrollmentID, []store.Update{
				{Field: "status", Value: string(target)},
			})
		default:
			return apperrors.ErrInvalidState
		}
	})
}

// ListPendingForTutor returns the pending enrollments for courses owned by
// the tutor. The join against course ownership lives here instead of the
// client looping over documents.
func (l *Ledger) ListPendingForTutor(ctx context.Context, tutorID string) ([]*models.Enrollment, error) {
	docs, err := l.store.Query(ctx, models.FirestoreEnrollmentsCollection,
		store.Filter{Field: "status", Value: string(models.EnrollmentPending)},
	)
	if err != nil {
		return nil, err
	}

	pending := make([]*models.Enrollment, 0)
	for _, doc := range docs {
		e, err := decode(doc)
		if err != nil {
			return nil, err
		}
		courseDoc, err := l.store.Get(ctx, models.FirestoreCoursesCollection, e.CourseID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				glog.Warningf("enrollment %v references missing course %v", e.ID, e.CourseID)
				continue
			}
			return nil, err
		}
		var course models.Course
		if err := courseDoc.DataTo(&course); err != nil {
			return nil, err
		}
		if course.TutorID == tutorID {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// ListForStudent returns one enrollment per course for the student: the
// live one when it exists, otherwise the most recently created terminal
// one. Used to render enrollment-status badges on the course list.
func (l *Ledger) ListForStudent(ctx context.Context, studentID string) (map[string]*models.Enrollment, error) {
	docs, err := l.store.Query(ctx, models.FirestoreEnrollmentsCollection,
		store.Filter{Field: "studentId", Value: studentID},
	)
	if err != nil {
		return nil, err
	}

	byCourse := make(map[string]*models.Enrollment)
	for _, doc := range docs {
		e, err := decode(doc)
		if err != nil {
			return nil, err
		}
		prev, ok := byCourse[e.CourseID]
		if !ok {
			byCourse[e.CourseID] = e
			continue
		}
		if prev.Status.Live() {
			continue
		}
		if e.Status.Live() || e.CreatedAt.After(prev.CreatedAt) {
			byCourse[e.CourseID] = e
		}
	}
	return byCourse, nil
}

// RosterForCourse returns the approved student IDs for a course, visible
// only to the owning tutor.
func (l *Ledger) RosterForCourse(ctx context.Context, tutorID, courseID string) ([]string, error) {
	courseDoc, err := l.store.Get(ctx, models.FirestoreCoursesCollection, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}
	var course models.Course
	if err := courseDoc.DataTo(&course); err != nil {
		return nil, err
	}
	if course.TutorID != tutorID {
		return nil, apperrors.ErrNotCourseOwner
	}

	docs, err := l.store.Query(ctx, models.FirestoreEnrollmentsCollection,
		store.Filter{Field: "courseId", Value: courseID},
		store.Filter{Field: "status", Value: string(models.EnrollmentApproved)},
	)
	if err != nil {
		return nil, err
	}

	roster := make([]string, 0, len(docs))
	for _, doc := range docs {
		e, err := decode(doc)
		if err != nil {
			return nil, err
		}
		roster = append(roster, e.StudentID)
	}
	return roster, nil
}

func decode(doc *store.Document) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := doc.DataTo(&e); err != nil {
		return nil, err
	}
	e.ID = doc.ID
	return &e, nil
}
