package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/chaos156/elearning/internal/apperrors"
	"github.com/chaos156/elearning/internal/auth"
	"github.com/chaos156/elearning/internal/models"
)

func (h *Handler) CourseRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Browsing
	router.With(h.Auth.RequireAuth()).Get("/", h.listCoursesHandler)
	router.With(h.Auth.RequireAuth()).Get("/{courseID}", h.getCourseHandler)
	router.With(h.Auth.RequireAuth()).Get("/{courseID}/lessons", h.listLessonsHandler)

	// Authoring
	router.With(h.Auth.RequireRole(models.RoleTutor)).Post("/create", h.createCourseHandler)
	router.With(h.Auth.RequireRole(models.RoleTutor)).Get("/mine", h.listOwnCoursesHandler)
	router.With(h.Auth.RequireRole(models.RoleTutor)).Post("/{courseID}/lessons", h.createLessonHandler)

	// Tutor views
	router.With(h.Auth.RequireRole(models.RoleTutor)).Get("/{courseID}/roster", h.courseRosterHandler)
	router.With(h.Auth.RequireRole(models.RoleTutor)).Get("/{courseID}/progress", h.courseProgressHandler)

	// Student view
	router.With(h.Auth.RequireRole(models.RoleStudent)).Get("/{courseID}/unlocked", h.unlockedLessonsHandler)

	return router
}

// GET: /?subject=
func (h *Handler) listCoursesHandler(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Courses.List(r.Context(), r.URL.Query().Get("subject"))
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, courses)
}

// GET: /{courseID}
func (h *Handler) getCourseHandler(w http.ResponseWriter, r *http.Request) {
	course, err := h.Courses.Get(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, course)
}

// GET: /{courseID}/lessons
func (h *Handler) listLessonsHandler(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.Courses.ListLessons(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, lessons)
}

// POST: /create
func (h *Handler) createCourseHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.TutorID = user.ID

	course, err := h.Courses.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, course)
}

// GET: /mine
func (h *Handler) listOwnCoursesHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	courses, err := h.Courses.ListForTutor(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, courses)
}

// POST: /{courseID}/lessons
func (h *Handler) createLessonHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req models.CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.CourseID = chi.URLParam(r, "courseID")
	req.TutorID = user.ID

	lesson, err := h.Courses.CreateLesson(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, lesson)
}

// GET: /{courseID}/roster
func (h *Handler) courseRosterHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	roster, err := h.Enrollments.RosterForCourse(r.Context(), user.ID, chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, roster)
}

// GET: /{courseID}/progress
func (h *Handler) courseProgressHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	courseID := chi.URLParam(r, "courseID")
	course, err := h.Courses.Get(r.Context(), courseID)
	if err != nil {
		respondError(w, err)
		return
	}
	if course.TutorID != user.ID {
		respondError(w, apperrors.ErrNotCourseOwner)
		return
	}

	rows, err := h.Progress.CourseProgress(r.Context(), courseID)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, rows)
}

// GET: /{courseID}/unlocked
func (h *Handler) unlockedLessonsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	unlocked, err := h.Lessons.UnlockedLessons(r.Context(), user.ID, chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, unlocked)
}
