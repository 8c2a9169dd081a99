package course

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos156/elearning/internal/apperrors"
	"github.com/chaos156/elearning/internal/models"
	"github.com/chaos156/elearning/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return NewService(mem), mem
}

func seedUser(t *testing.T, s *store.Memory, userID string, role models.Role) {
	t.Helper()
	err := s.Set(context.Background(), models.FirestoreUsersCollection, userID, map[string]interface{}{
		"email": userID + "@example.com",
		"role":  string(role),
		"name":  "Test User",
		"bio":   "",
	})
	require.NoError(t, err)
}

func createCourse(t *testing.T, svc *Service, tutorID, name, subject string) *models.Course {
	t.Helper()
	course, err := svc.Create(context.Background(), &models.CreateCourseRequest{
		TutorID:     tutorID,
		Name:        name,
		Description: "A course",
		Subject:     subject,
	})
	require.NoError(t, err)
	return course
}

func TestCreateRequiresTutorRole(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	seedUser(t, mem, "student-s", models.RoleStudent)

	_, err := svc.Create(ctx, &models.CreateCourseRequest{
		TutorID: "student-s",
		Name:    "Calculus",
		Subject: "Mathematics",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Create(ctx, &models.CreateCourseRequest{
		TutorID: "nobody",
		Name:    "Calculus",
		Subject: "Mathematics",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	seedUser(t, mem, "tutor-t", models.RoleTutor)

	_, err := svc.Create(ctx, &models.CreateCourseRequest{
		TutorID: "tutor-t",
		Name:    "  ",
		Subject: "Mathematics",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, &models.CreateCourseRequest{
		TutorID: "tutor-t",
		Name:    "Calculus",
		Subject: "Underwater Basket Weaving",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	seedUser(t, mem, "tutor-t", models.RoleTutor)

	created := createCourse(t, svc, "tutor-t", "Calculus", "Mathematics")
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Calculus", got.Name)
	assert.Equal(t, "Mathematics", got.Subject)
	assert.Equal(t, "tutor-t", got.TutorID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestListFiltersBySubject(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	seedUser(t, mem, "tutor-t", models.RoleTutor)

	createCourse(t, svc, "tutor-t", "Calculus", "Mathematics")
	createCourse(t, svc, "tutor-t", "Mechanics", "Physics")

	math, err := svc.List(ctx, "Mathematics")
	require.NoError(t, err)
	require.Len(t, math, 1)
	assert.Equal(t, "Calculus", math[0].Name)

	all, err := svc.List(ctx, "All")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	all, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListForTutor(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	seedUser(t, mem, "tutor-t", models.RoleTutor)
	seedUser(t, mem, "tutor-u", models.RoleTutor)

	createCourse(t, svc, "tutor-t", "Calculus", "Mathematics")
	createCourse(t, svc, "tutor-u", "Mechanics", "Physics")

	mine, err := svc.ListForTutor(ctx, "tutor-t")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Calculus", mine[0].Name)
}

func TestCreateLessonOwnership(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	seedUser(t, mem, "tutor-t", models.RoleTutor)
	course := createCourse(t, svc, "tutor-t", "Calculus", "Mathematics")

	_, err := svc.CreateLesson(ctx, &models.CreateLessonRequest{
		TutorID:  "intruder",
		CourseID: course.ID,
		Title:    "Limits",
		Order:    1,
		Pages:    []models.Page{{TextContent: "intro"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotCourseOwner)
}

func TestCreateLessonValidation(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	seedUser(t, mem, "tutor-t", models.RoleTutor)
	course := createCourse(t, svc, "tutor-t", "Calculus", "Mathematics")

	cases := []struct {
		name string
		req  *models.CreateLessonRequest
	}{
		{"blank title", &models.CreateLessonRequest{
			TutorID: "tutor-t", CourseID: course.ID, Title: " ", Order: 1,
			Pages: []models.Page{{TextContent: "x"}},
		}},
		{"zero order", &models.CreateLessonRequest{
			TutorID: "tutor-t", CourseID: course.ID, Title: "Limits", Order: 0,
			Pages: []models.Page{{TextContent: "x"}},
		}},
		{"no pages", &models.CreateLessonRequest{
			TutorID: "tutor-t", CourseID: course.ID, Title: "Limits", Order: 1,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateLesson(ctx, tc.req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCreateLessonWritesPages(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	seedUser(t, mem, "tutor-t", models.RoleTutor)
	course := createCourse(t, svc, "tutor-t", "Calculus", "Mathematics")

	lesson, err := svc.CreateLesson(ctx, &models.CreateLessonRequest{
		TutorID:  "tutor-t",
		CourseID: course.ID,
		Title:    "Limits",
		Order:    1,
		Pages: []models.Page{
			{TextContent: "intro", ImageURL: ""},
			{TextContent: "examples", ImageURL: "https://img.example.com/1.png"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, lesson.ID)

	first, err := mem.Get(ctx, models.LessonPagesCollection(lesson.ID), "Page 1")
	require.NoError(t, err)
	assert.Equal(t, "intro", first.Data["textContent"])

	second, err := mem.Get(ctx, models.LessonPagesCollection(lesson.ID), "Page 2")
	require.NoError(t, err)
	assert.Equal(t, "examples", second.Data["textContent"])
}

// pageWriteFailStore fails every transactional Set, simulating a page
// write error mid-lesson-creation.
type pageWriteFailStore struct {
	store.Store
}

func (s *pageWriteFailStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	return s.Store.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		return fn(ctx, &pageWriteFailTx{Tx: tx})
	})
}

type pageWriteFailTx struct {
	store.Tx
}

func (t *pageWriteFailTx) Set(collection, id string, data map[string]interface{}) error {
	return errors.New("write failed")
}

func TestCreateLessonPageFailureLeavesNoLesson(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedUser(t, mem, "tutor-t", models.RoleTutor)

	setup := NewService(mem)
	course := createCourse(t, setup, "tutor-t", "Calculus", "Mathematics")

	svc := NewService(&pageWriteFailStore{Store: mem})
	_, err := svc.CreateLesson(ctx, &models.CreateLessonRequest{
		TutorID:  "tutor-t",
		CourseID: course.ID,
		Title:    "Limits",
		Order:    1,
		Pages:    []models.Page{{TextContent: "intro"}},
	})
	require.Error(t, err)

	// The failed page write rolls back the lesson create too.
	docs, err := mem.Query(ctx, models.FirestoreLessonsCollection)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestListLessonsSorted(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	seedUser(t, mem, "tutor-t", models.RoleTutor)
	course := createCourse(t, svc, "tutor-t", "Calculus", "Mathematics")

	for _, l := range []struct {
		title string
		order int
	}{
		{"Integrals", 3},
		{"Limits", 1},
		{"Derivatives", 2},
	} {
		_, err := svc.CreateLesson(ctx, &models.CreateLessonRequest{
			TutorID:  "tutor-t",
			CourseID: course.ID,
			Title:    l.title,
			Order:    l.order,
			Pages:    []models.Page{{TextContent: "x"}},
		})
		require.NoError(t, err)
	}

	got, err := svc.ListLessons(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Limits", got[0].Title)
	assert.Equal(t, "Derivatives", got[1].Title)
	assert.Equal(t, "Integrals", got[2].Title)
}
