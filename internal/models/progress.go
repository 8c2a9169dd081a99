package models

// StudentProgress is the student dashboard aggregate.
type StudentProgress struct {
	EnrolledCourses  int     `json:"enrolledCourses"`
	CompletedLessons int     `json:"completedLessons"`
	TotalLessons     int     `json:"totalLessons"`
	Percentage       float64 `json:"percentage"`
}

// CourseStudentProgress is one row of the tutor's per-course progress chart.
type CourseStudentProgress struct {
	StudentID        string `json:"studentId"`
	StudentName      string `json:"studentName"`
	CompletedLessons int    `json:"completedLessons"`
	TotalLessons     int    `json:"totalLessons"`
}

// TutorOverview is the tutor dashboard aggregate.
type TutorOverview struct {
	Courses         int `json:"totalCourses"`
	Lessons         int `json:"totalLessons"`
	Students        int `json:"totalStudents"`
	PendingRequests int `json:"pendingRequests"`
}
