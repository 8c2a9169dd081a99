package progress

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos156/elearning/internal/models"
	"github.com/chaos156/elearning/internal/store"
)

func newTestAggregator(t *testing.T) (*Aggregator, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return NewAggregator(mem), mem
}

func seedCourse(t *testing.T, s *store.Memory, courseID, tutorID string) {
	t.Helper()
	err := s.Set(context.Background(), models.FirestoreCoursesCollection, courseID, map[string]interface{}{
		"tutorId":           tutorID,
		"courseName":        "Physics",
		"courseDescription": "Mechanics",
		"subject":           "Science",
	})
	require.NoError(t, err)
}

func seedLesson(t *testing.T, s *store.Memory, lessonID, courseID string, order int) {
	t.Helper()
	err := s.Set(context.Background(), models.FirestoreLessonsCollection, lessonID, map[string]interface{}{
		"courseId":    courseID,
		"title":       fmt.Sprintf("Lesson %d", order),
		"lessonOrder": order,
	})
	require.NoError(t, err)
}

func seedEnrollment(t *testing.T, s *store.Memory, studentID, courseID string, status models.EnrollmentStatus) {
	t.Helper()
	_, err := s.Create(context.Background(), models.FirestoreEnrollmentsCollection, map[string]interface{}{
		"studentId": studentID,
		"courseId":  courseID,
		"status":    string(status),
	})
	require.NoError(t, err)
}

func seedSubmission(t *testing.T, s *store.Memory, studentID, lessonID string) {
	t.Helper()
	_, err := s.Create(context.Background(), models.FirestoreSubmissionsCollection, map[string]interface{}{
		"lessonId": lessonID,
		"userId":   studentID,
	})
	require.NoError(t, err)
}

func seedUser(t *testing.T, s *store.Memory, userID, name string) {
	t.Helper()
	err := s.Set(context.Background(), models.FirestoreUsersCollection, userID, map[string]interface{}{
		"email": userID + "@example.com",
		"role":  string(models.RoleStudent),
		"name":  name,
		"bio":   "",
	})
	require.NoError(t, err)
}

func TestStudentProgressAcrossCourses(t *testing.T) {
	ctx := context.Background()
	agg, mem := newTestAggregator(t)

	seedCourse(t, mem, "course-a", "tutor-t")
	seedCourse(t, mem, "course-b", "tutor-t")
	seedLesson(t, mem, "a1", "course-a", 1)
	seedLesson(t, mem, "a2", "course-a", 2)
	seedLesson(t, mem, "b1", "course-b", 1)
	seedLesson(t, mem, "b2", "course-b", 2)

	seedEnrollment(t, mem, "student-s", "course-a", models.EnrollmentApproved)
	seedEnrollment(t, mem, "student-s", "course-b", models.EnrollmentApproved)
	seedSubmission(t, mem, "student-s", "a1")
	seedSubmission(t, mem, "student-s", "a2")
	seedSubmission(t, mem, "student-s", "b1")

	got, err := agg.StudentProgress(ctx, "student-s")
	require.NoError(t, err)
	assert.Equal(t, 2, got.EnrolledCourses)
	assert.Equal(t, 3, got.CompletedLessons)
	assert.Equal(t, 4, got.TotalLessons)
	assert.InDelta(t, 0.75, got.Percentage, 1e-9)
}

func TestStudentProgressIgnoresPendingAndForeignSubmissions(t *testing.T) {
	ctx := context.Background()
	agg, mem := newTestAggregator(t)

	seedCourse(t, mem, "course-a", "tutor-t")
	seedCourse(t, mem, "course-b", "tutor-t")
	seedLesson(t, mem, "a1", "course-a", 1)
	seedLesson(t, mem, "b1", "course-b", 1)

	seedEnrollment(t, mem, "student-s", "course-a", models.EnrollmentApproved)
	seedEnrollment(t, mem, "student-s", "course-b", models.EnrollmentPending)
	// Submission in the pending course does not count toward totals.
	seedSubmission(t, mem, "student-s", "b1")

	got, err := agg.StudentProgress(ctx, "student-s")
	require.NoError(t, err)
	assert.Equal(t, 1, got.EnrolledCourses)
	assert.Equal(t, 0, got.CompletedLessons)
	assert.Equal(t, 1, got.TotalLessons)
	assert.Zero(t, got.Percentage)
}

func TestStudentProgressNoLessons(t *testing.T) {
	ctx := context.Background()
	agg, mem := newTestAggregator(t)

	seedCourse(t, mem, "course-a", "tutor-t")
	seedEnrollment(t, mem, "student-s", "course-a", models.EnrollmentApproved)

	got, err := agg.StudentProgress(ctx, "student-s")
	require.NoError(t, err)
	assert.Equal(t, 1, got.EnrolledCourses)
	assert.Zero(t, got.TotalLessons)
	assert.Zero(t, got.Percentage)
}

func TestCourseProgressRows(t *testing.T) {
	ctx := context.Background()
	agg, mem := newTestAggregator(t)

	seedCourse(t, mem, "course-a", "tutor-t")
	seedLesson(t, mem, "a1", "course-a", 1)
	seedLesson(t, mem, "a2", "course-a", 2)

	seedUser(t, mem, "student-1", "Ada")
	seedUser(t, mem, "student-2", "Grace")
	seedEnrollment(t, mem, "student-2", "course-a", models.EnrollmentApproved)
	seedEnrollment(t, mem, "student-1", "course-a", models.EnrollmentApproved)
	seedEnrollment(t, mem, "student-3", "course-a", models.EnrollmentPending)

	seedSubmission(t, mem, "student-1", "a1")
	seedSubmission(t, mem, "student-1", "a2")
	// A submission from another course must not count.
	seedSubmission(t, mem, "student-2", "other-lesson")

	rows, err := agg.CourseProgress(ctx, "course-a")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Rows come back sorted by student ID regardless of fetch order.
	assert.Equal(t, "student-1", rows[0].StudentID)
	assert.Equal(t, "Ada", rows[0].StudentName)
	assert.Equal(t, 2, rows[0].CompletedLessons)
	assert.Equal(t, 2, rows[0].TotalLessons)

	assert.Equal(t, "student-2", rows[1].StudentID)
	assert.Equal(t, "Grace", rows[1].StudentName)
	assert.Equal(t, 0, rows[1].CompletedLessons)
}

func TestCourseProgressMissingUserDegrades(t *testing.T) {
	ctx := context.Background()
	agg, mem := newTestAggregator(t)

	seedCourse(t, mem, "course-a", "tutor-t")
	seedLesson(t, mem, "a1", "course-a", 1)
	seedEnrollment(t, mem, "ghost-student", "course-a", models.EnrollmentApproved)
	seedSubmission(t, mem, "ghost-student", "a1")

	rows, err := agg.CourseProgress(ctx, "course-a")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown", rows[0].StudentName)
	assert.Equal(t, 1, rows[0].CompletedLessons)
}

func TestCourseProgressMalformedEnrollment(t *testing.T) {
	ctx := context.Background()
	agg, mem := newTestAggregator(t)

	seedCourse(t, mem, "course-a", "tutor-t")
	seedLesson(t, mem, "a1", "course-a", 1)
	seedUser(t, mem, "student-1", "Ada")
	seedEnrollment(t, mem, "student-1", "course-a", models.EnrollmentApproved)

	// A student ID of the wrong type cannot decode; the call fails cleanly
	// instead of fanning out with a partial student set.
	_, err := mem.Create(ctx, models.FirestoreEnrollmentsCollection, map[string]interface{}{
		"studentId": 42,
		"courseId":  "course-a",
		"status":    string(models.EnrollmentApproved),
	})
	require.NoError(t, err)

	_, err = agg.CourseProgress(ctx, "course-a")
	assert.Error(t, err)
}

func TestCourseProgressZeroLessons(t *testing.T) {
	ctx := context.Background()
	agg, mem := newTestAggregator(t)

	seedCourse(t, mem, "course-a", "tutor-t")
	seedUser(t, mem, "student-1", "Ada")
	seedEnrollment(t, mem, "student-1", "course-a", models.EnrollmentApproved)

	rows, err := agg.CourseProgress(ctx, "course-a")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].TotalLessons)
	assert.Zero(t, rows[0].CompletedLessons)
}

func TestCourseProgressNoEnrollments(t *testing.T) {
	ctx := context.Background()
	agg, mem := newTestAggregator(t)

	seedCourse(t, mem, "course-a", "tutor-t")
	seedLesson(t, mem, "a1", "course-a", 1)

	rows, err := agg.CourseProgress(ctx, "course-a")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTutorOverviewCounters(t *testing.T) {
	ctx := context.Background()
	agg, mem := newTestAggregator(t)

	seedCourse(t, mem, "course-a", "tutor-t")
	seedCourse(t, mem, "course-b", "tutor-t")
	seedCourse(t, mem, "course-c", "other-tutor")
	seedLesson(t, mem, "a1", "course-a", 1)
	seedLesson(t, mem, "a2", "course-a", 2)
	seedLesson(t, mem, "b1", "course-b", 1)
	seedLesson(t, mem, "c1", "course-c", 1)

	// student-1 is approved in two of the tutor's courses but counts once.
	seedEnrollment(t, mem, "student-1", "course-a", models.EnrollmentApproved)
	seedEnrollment(t, mem, "student-1", "course-b", models.EnrollmentApproved)
	seedEnrollment(t, mem, "student-2", "course-a", models.EnrollmentApproved)
	seedEnrollment(t, mem, "student-3", "course-a", models.EnrollmentPending)
	seedEnrollment(t, mem, "student-4", "course-c", models.EnrollmentApproved)
	seedEnrollment(t, mem, "student-5", "course-c", models.EnrollmentPending)

	got, err := agg.TutorOverview(ctx, "tutor-t")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Courses)
	assert.Equal(t, 3, got.Lessons)
	assert.Equal(t, 2, got.Students)
	assert.Equal(t, 1, got.PendingRequests)
}
