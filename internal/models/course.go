package models

// Subjects is the course subject catalogue offered by the app.
var Subjects = []string{"Computer Science", "Mathematics", "History", "Physics", "Biology", "Economics"}

// Course is created and owned by a single tutor.
type Course struct {
	ID          string `json:"id" mapstructure:"id,omitempty"`
	TutorID     string `json:"tutorId" mapstructure:"tutorId"`
	Name        string `json:"courseName" mapstructure:"courseName"`
	Description string `json:"courseDescription" mapstructure:"courseDescription"`
	Subject     string `json:"subject" mapstructure:"subject"`
}

// Lesson belongs to a course. Order defines the sequential unlock gate;
// duplicate or gap values are tolerated.
type Lesson struct {
	ID       string `json:"id" mapstructure:"id,omitempty"`
	CourseID string `json:"courseId" mapstructure:"courseId"`
	Title    string `json:"title" mapstructure:"title"`
	Order    int    `json:"lessonOrder" mapstructure:"lessonOrder"`
}

// Page is one page of lesson content. Pages have no independent lifecycle;
// they live in the lesson's pages subcollection.
type Page struct {
	TextContent string `json:"textContent" mapstructure:"textContent"`
	ImageURL    string `json:"imageUrl,omitempty" mapstructure:"imageUrl"`
}

// CreateCourseRequest is the parameter struct for the Create function.
type CreateCourseRequest struct {
	TutorID     string `json:"tutorID,omitempty"`
	Name        string `json:"courseName"`
	Description string `json:"courseDescription"`
	Subject     string `json:"subject"`
}

// CreateLessonRequest is the parameter struct for the CreateLesson function.
type CreateLessonRequest struct {
	TutorID  string `json:"tutorID,omitempty"`
	CourseID string `json:"courseID"`
	Title    string `json:"title"`
	Order    int    `json:"lessonOrder"`
	Pages    []Page `json:"pages"`
}
