package models

// Firestore collection names. Field and collection names follow the mobile
// client's existing schema, so the backend can run against the same project.
const (
	FirestoreUsersCollection        = "users"
	FirestoreCoursesCollection      = "courses"
	FirestoreLessonsCollection      = "lessons"
	FirestoreEnrollmentsCollection  = "enrollments"
	FirestoreSubmissionsCollection  = "lesson_submissions"
	FirestoreAvailabilityCollection = "availability"
	FirestoreBookingsCollection     = "bookings"
)

// LessonPagesCollection returns the path of a lesson's pages subcollection.
func LessonPagesCollection(lessonID string) string {
	return FirestoreLessonsCollection + "/" + lessonID + "/pages"
}
