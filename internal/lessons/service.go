// Package lessons decides which lessons a student may access and records
// lesson completions. Access is strictly sequential: a lesson unlocks once
// the lesson before it (by order) has a submission from the student.
package lessons

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/chaos156/elearning/internal/apperrors"
	"github.com/chaos156/elearning/internal/models"
	"github.com/chaos156/elearning/internal/store"
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// UnlockedLessons returns the set of lesson IDs the student may currently
// access in the course. A student without an approved enrollment sees
// every lesson locked; a course with no lessons yields an empty set.
func (s *Service) UnlockedLessons(ctx context.Context, studentID, courseID string) (map[string]bool, error) {
	approved, err := s.hasApprovedEnrollment(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return map[string]bool{}, nil
	}

	courseLessons, err := s.courseLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.completedLessons(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return UnlockedSet(courseLessons, completed), nil
}

// IsUnlocked reports whether the student may access the given lesson.
func (s *Service) IsUnlocked(ctx context.Context, studentID, lessonID string) (bool, error) {
	lesson, err := s.getLesson(ctx, lessonID)
	if err != nil {
		return false, err
	}
	unlocked, err := s.UnlockedLessons(ctx, studentID, lesson.CourseID)
	if err != nil {
		return false, err
	}
	return unlocked[lessonID], nil
}

// Submit records that the student completed the lesson. Completion facts
// are append-only and idempotent: submitting an already-completed lesson
// succeeds silently. The student must hold an approved enrollment and the
// lesson must be unlocked. The document ID is derived from the (lesson,
// student) pair, so concurrent submits land on the same document and at
// most one fact ever exists.
func (s *Service) Submit(ctx context.Context, studentID, lessonID string) error {
	lesson, err := s.getLesson(ctx, lessonID)
	if err != nil {
		return err
	}

	approved, err := s.hasApprovedEnrollment(ctx, studentID, lesson.CourseID)
	if err != nil {
		return err
	}
	if !approved {
		return apperrors.ErrNotEnrolled
	}

	docID := submissionDocID(lessonID, studentID)
	if _, err := s.store.Get(ctx, models.FirestoreSubmissionsCollection, docID); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	unlocked, err := s.IsUnlocked(ctx, studentID, lessonID)
	if err != nil {
		return err
	}
	if !unlocked {
		return apperrors.ErrLessonLocked
	}

	return s.store.Set(ctx, models.FirestoreSubmissionsCollection, docID, map[string]interface{}{
		"lessonId":    lessonID,
		"userId":      studentID,
		"submittedAt": time.Now(),
	})
}

func submissionDocID(lessonID, studentID string) string {
	return lessonID + "_" + studentID
}

// Pages returns the lesson's page content in page order. The lesson must
// be unlocked for the student.
func (s *Service) Pages(ctx context.Context, studentID, lessonID string) ([]models.Page, error) {
	unlocked, err := s.IsUnlocked(ctx, studentID, lessonID)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, apperrors.ErrLessonLocked
	}

	docs, err := s.store.Query(ctx, models.LessonPagesCollection(lessonID))
	if err != nil {
		return nil, err
	}

	type numberedPage struct {
		models.Page `mapstructure:",squash"`
		PageNumber  int `mapstructure:"pageNumber"`
	}
	numbered := make([]numberedPage, 0, len(docs))
	for _, doc := range docs {
		var p numberedPage
		if err := doc.DataTo(&p); err != nil {
			return nil, err
		}
		numbered = append(numbered, p)
	}
	sort.Slice(numbered, func(i, j int) bool { return numbered[i].PageNumber < numbered[j].PageNumber })

	pages := make([]models.Page, 0, len(numbered))
	for _, p := range numbered {
		pages = append(pages, p.Page)
	}
	return pages, nil
}

func (s *Service) getLesson(ctx context.Context, lessonID string) (*models.Lesson, error) {
	doc, err := s.store.Get(ctx, models.FirestoreLessonsCollection, lessonID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, err
	}
	var lesson models.Lesson
	if err := doc.DataTo(&lesson); err != nil {
		return nil, err
	}
	lesson.ID = doc.ID
	return &lesson, nil
}

func (s *Service) courseLessons(ctx context.Context, courseID string) ([]*models.Lesson, error) {
	docs, err := s.store.Query(ctx, models.FirestoreLessonsCollection,
		store.Filter{Field: "courseId", Value: courseID},
	)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Lesson, 0, len(docs))
	for _, doc := range docs {
		var lesson models.Lesson
		if err := doc.DataTo(&lesson); err != nil {
			return nil, err
		}
		lesson.ID = doc.ID
		out = append(out, &lesson)
	}
	return out, nil
}

// completedLessons returns the IDs of all lessons the student has
// submitted, across courses.
func (s *Service) completedLessons(ctx context.Context, studentID string) (map[string]bool, error) {
	docs, err := s.store.Query(ctx, models.FirestoreSubmissionsCollection,
		store.Filter{Field: "userId", Value: studentID},
	)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]bool, len(docs))
	for _, doc := range docs {
		var sub models.Submission
		if err := doc.DataTo(&sub); err != nil {
			return nil, err
		}
		completed[sub.LessonID] = true
	}
	return completed, nil
}

func (s *Service) hasApprovedEnrollment(ctx context.Context, studentID, courseID string) (bool, error) {
	docs, err := s.store.Query(ctx, models.FirestoreEnrollmentsCollection,
		store.Filter{Field: "studentId", Value: studentID},
		store.Filter{Field: "courseId", Value: courseID},
		store.Filter{Field: "status", Value: string(models.EnrollmentApproved)},
	)
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}
