// Package progress turns raw submission facts into completion statistics
// for the student dashboard, the tutor's per-course progress chart, and the
// tutor dashboard counters.
package progress

import (
	"context"
	"sort"
	"sync"

	"github.com/golang/glog"

	"github.com/chaos156/elearning/internal/models"
	"github.com/chaos156/elearning/internal/store"
)

type Aggregator struct {
	store store.Store
}

func NewAggregator(s store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// StudentProgress aggregates lesson completion across all of the student's
// approved enrollments. Percentage is 0 when no lessons exist.
func (a *Aggregator) StudentProgress(ctx context.Context, studentID string) (*models.StudentProgress, error) {
	enrollments, err := a.store.Query(ctx, models.FirestoreEnrollmentsCollection,
		store.Filter{Field: "studentId", Value: studentID},
		store.Filter{Field: "status", Value: string(models.EnrollmentApproved)},
	)
	if err != nil {
		return nil, err
	}

	submitted, err := a.submittedLessonIDs(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := &models.StudentProgress{EnrolledCourses: len(enrollments)}
	for _, doc := range enrollments {
		var e models.Enrollment
		if err := doc.DataTo(&e); err != nil {
			return nil, err
		}
		lessonIDs, err := a.courseLessonIDs(ctx, e.CourseID)
		if err != nil {
			return nil, err
		}
		result.TotalLessons += len(lessonIDs)
		for _, id := range lessonIDs {
			if submitted[id] {
				result.CompletedLessons++
			}
		}
	}

	if result.TotalLessons > 0 {
		result.Percentage = float64(result.CompletedLessons) / float64(result.TotalLessons)
	}
	return result, nil
}

// CourseProgress returns one row per approved student in the course. The
// per-student reads fan out concurrently and are all joined before
// returning. A failed student fetch degrades that row to the "Unknown"
// sentinel name instead of dropping it, so row counts always match the
// enrollment total. Rows are sorted by student ID for reproducible output.
func (a *Aggregator) CourseProgress(ctx context.Context, courseID string) ([]models.CourseStudentProgress, error) {
	lessonIDs, err := a.courseLessonIDs(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lessonSet := make(map[string]bool, len(lessonIDs))
	for _, id := range lessonIDs {
		lessonSet[id] = true
	}

	enrollments, err := a.store.Query(ctx, models.FirestoreEnrollmentsCollection,
		store.Filter{Field: "courseId", Value: courseID},
		store.Filter{Field: "status", Value: string(models.EnrollmentApproved)},
	)
	if err != nil {
		return nil, err
	}

	// Decode everything before fanning out, so a malformed document fails
	// the call without launched goroutines still appending to rows.
	studentIDs := make([]string, 0, len(enrollments))
	for _, doc := range enrollments {
		var e models.Enrollment
		if err := doc.DataTo(&e); err != nil {
			return nil, err
		}
		if e.StudentID == "" {
			glog.Warningf("enrollment %v has no studentId, skipping", doc.ID)
			continue
		}
		studentIDs = append(studentIDs, e.StudentID)
	}

	rows := make([]models.CourseStudentProgress, 0, len(studentIDs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, studentID := range studentIDs {
		wg.Add(1)
		go func(studentID string) {
			defer wg.Done()
			row := a.studentRow(ctx, studentID, lessonSet, len(lessonIDs))
			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
		}(studentID)
	}
	wg.Wait()

	sort.Slice(rows, func(i, j int) bool { return rows[i].StudentID < rows[j].StudentID })
	return rows, nil
}

// studentRow builds one progress row, degrading on partial failures
// instead of aborting the whole aggregation.
func (a *Aggregator) studentRow(ctx context.Context, studentID string, lessonSet map[string]bool, totalLessons int) models.CourseStudentProgress {
	row := models.CourseStudentProgress{
		StudentID:    studentID,
		StudentName:  "Unknown",
		TotalLessons: totalLessons,
	}

	userDoc, err := a.store.Get(ctx, models.FirestoreUsersCollection, studentID)
	if err != nil {
		glog.Warningf("error fetching student %v: %v", studentID, err)
	} else {
		var user models.User
		if err := userDoc.DataTo(&user); err == nil && user.Name != "" {
			row.StudentName = user.Name
		}
	}

	submitted, err := a.submittedLessonIDs(ctx, studentID)
	if err != nil {
		glog.Warningf("error fetching submissions for student %v: %v", studentID, err)
		return row
	}
	for id := range submitted {
		if lessonSet[id] {
			row.CompletedLessons++
		}
	}
	return row
}

// TutorOverview computes the tutor dashboard counters: course and lesson
// totals, unique approved students across the tutor's courses, and pending
// enrollment requests for those courses.
func (a *Aggregator) TutorOverview(ctx context.Context, tutorID string) (*models.TutorOverview, error) {
	courses, err := a.store.Query(ctx, models.FirestoreCoursesCollection,
		store.Filter{Field: "tutorId", Value: tutorID},
	)
	if err != nil {
		return nil, err
	}

	owned := make(map[string]bool, len(courses))
	overview := &models.TutorOverview{Courses: len(courses)}
	for _, doc := range courses {
		owned[doc.ID] = true
		lessonIDs, err := a.courseLessonIDs(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		overview.Lessons += len(lessonIDs)
	}

	approved, err := a.store.Query(ctx, models.FirestoreEnrollmentsCollection,
		store.Filter{Field: "status", Value: string(models.EnrollmentApproved)},
	)
	if err != nil {
		return nil, err
	}
	students := make(map[string]bool)
	for _, doc := range approved {
		var e models.Enrollment
		if err := doc.DataTo(&e); err != nil {
			return nil, err
		}
		if owned[e.CourseID] {
			students[e.StudentID] = true
		}
	}
	overview.Students = len(students)

	pending, err := a.store.Query(ctx, models.FirestoreEnrollmentsCollection,
		store.Filter{Field: "status", Value: string(models.EnrollmentPending)},
	)
	if err != nil {
		return nil, err
	}
	for _, doc := range pending {
		var e models.Enrollment
		if err := doc.DataTo(&e); err != nil {
			return nil, err
		}
		if owned[e.CourseID] {
			overview.PendingRequests++
		}
	}
	return overview, nil
}

func (a *Aggregator) courseLessonIDs(ctx context.Context, courseID string) ([]string, error) {
	docs, err := a.store.Query(ctx, models.FirestoreLessonsCollection,
		store.Filter{Field: "courseId", Value: courseID},
	)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (a *Aggregator) submittedLessonIDs(ctx context.Context, studentID string) (map[string]bool, error) {
	docs, err := a.store.Query(ctx, models.FirestoreSubmissionsCollection,
		store.Filter{Field: "userId", Value: studentID},
	)
	if err != nil {
		return nil, err
	}
	submitted := make(map[string]bool, len(docs))
	for _, doc := range docs {
		var sub models.Submission
		if err := doc.DataTo(&sub); err != nil {
			return nil, err
		}
		submitted[sub.LessonID] = true
	}
	return submitted, nil
}
