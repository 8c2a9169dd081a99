// Package course handles course and lesson authoring by tutors, and course
// browsing for students.
package course

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chaos156/elearning/internal/apperrors"
	"github.com/chaos156/elearning/internal/lessons"
	"github.com/chaos156/elearning/internal/models"
	"github.com/chaos156/elearning/internal/store"
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Create creates a course owned by the acting tutor. Only users with the
// Tutor role may create courses, and the subject must come from the
// catalogue.
func (s *Service) Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	if err := s.requireTutor(ctx, req.TutorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: course name is required", apperrors.ErrValidation)
	}
	if !validSubject(req.Subject) {
		return nil, fmt.Errorf("%w: unknown subject %q", apperrors.ErrValidation, req.Subject)
	}

	course := &models.Course{
		TutorID:     req.TutorID,
		Name:        req.Name,
		Description: req.Description,
		Subject:     req.Subject,
	}
	id, err := s.store.Create(ctx, models.FirestoreCoursesCollection, map[string]interface{}{
		"tutorId":           course.TutorID,
		"courseName":        course.Name,
		"courseDescription": course.Description,
		"subject":           course.Subject,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating course: %v", err)
	}
	course.ID = id
	return course, nil
}

// Get returns the course with the given ID.
func (s *Service) Get(ctx context.Context, courseID string) (*models.Course, error) {
	doc, err := s.store.Get(ctx, models.FirestoreCoursesCollection, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}
	return decodeCourse(doc)
}

// List returns all courses, optionally filtered by subject. An empty
// subject or "All" disables the filter.
func (s *Service) List(ctx context.Context, subject string) ([]*models.Course, error) {
	var filters []store.Filter
	if subject != "" && subject != "All" {
		filters = append(filters, store.Filter{Field: "subject", Value: subject})
	}
	docs, err := s.store.Query(ctx, models.FirestoreCoursesCollection, filters...)
	if err != nil {
		return nil, err
	}
	return decodeCourses(docs)
}

// ListForTutor returns the courses owned by the tutor.
func (s *Service) ListForTutor(ctx context.Context, tutorID string) ([]*models.Course, error) {
	docs, err := s.store.Query(ctx, models.FirestoreCoursesCollection,
		store.Filter{Field: "tutorId", Value: tutorID},
	)
	if err != nil {
		return nil, err
	}
	return decodeCourses(docs)
}

// CreateLesson adds a lesson with its pages to a course owned by the
// acting tutor. Pages land in the lesson's pages subcollection, one
// document per page. The lesson and its pages are written in one
// transaction so a failed page write cannot leave a pageless lesson.
func (s *Service) CreateLesson(ctx context.Context, req *models.CreateLessonRequest) (*models.Lesson, error) {
	course, err := s.Get(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if course.TutorID != req.TutorID {
		return nil, apperrors.ErrNotCourseOwner
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: lesson title is required", apperrors.ErrValidation)
	}
	if req.Order <= 0 {
		return nil, fmt.Errorf("%w: lesson order must be positive", apperrors.ErrValidation)
	}
	if len(req.Pages) == 0 {
		return nil, fmt.Errorf("%w: a lesson needs at least one page", apperrors.ErrValidation)
	}

	lesson := &models.Lesson{
		CourseID: req.CourseID,
		Title:    req.Title,
		Order:    req.Order,
	}
	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		id, err := tx.Create(models.FirestoreLessonsCollection, map[string]interface{}{
			"courseId":    lesson.CourseID,
			"title":       lesson.Title,
			"lessonOrder": lesson.Order,
		})
		if err != nil {
			return fmt.Errorf("error creating lesson: %v", err)
		}
		lesson.ID = id

		for i, page := range req.Pages {
			err := tx.Set(models.LessonPagesCollection(id), fmt.Sprintf("Page %d", i+1), map[string]interface{}{
				"textContent": page.TextContent,
				"imageUrl":    page.ImageURL,
				"pageNumber":  i + 1,
			})
			if err != nil {
				return fmt.Errorf("error creating lesson page: %v", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// ListLessons returns the course's lessons sorted by order.
func (s *Service) ListLessons(ctx context.Context, courseID string) ([]*models.Lesson, error) {
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
	lessons.SortByOrder(out)
	return out, nil
}

func (s *Service) requireTutor(ctx context.Context, userID string) error {
	doc, err := s.store.Get(ctx, models.FirestoreUsersCollection, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return err
	}
	if user.Role != models.RoleTutor {
		return fmt.Errorf("%w: only tutors can do this", apperrors.ErrPermissionDenied)
	}
	return nil
}

func validSubject(subject string) bool {
	for _, s := range models.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

func decodeCourse(doc *store.Document) (*models.Course, error) {
	var c models.Course
	if err := doc.DataTo(&c); err != nil {
		return nil, err
	}
	c.ID = doc.ID
	return &c, nil
}

func decodeCourses(docs []*store.Document) ([]*models.Course, error) {
	out := make([]*models.Course, 0, len(docs))
	for _, doc := range docs {
		c, err := decodeCourse(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
