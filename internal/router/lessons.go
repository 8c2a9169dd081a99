package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/chaos156/elearning/internal/auth"
	"github.com/chaos156/elearning/internal/models"
)

func (h *Handler) LessonRoutes() *chi.Mux {
	router := chi.NewRouter()

	router.With(h.Auth.RequireRole(models.RoleStudent)).Get("/{lessonID}/pages", h.lessonPagesHandler)
	router.With(h.Auth.RequireRole(models.RoleStudent)).Post("/{lessonID}/submit", h.submitLessonHandler)

	return router
}

// GET: /{lessonID}/pages
func (h *Handler) lessonPagesHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	pages, err := h.Lessons.Pages(r.Context(), user.ID, chi.URLParam(r, "lessonID"))
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, pages)
}

// POST: /{lessonID}/submit
func (h *Handler) submitLessonHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	lessonID := chi.URLParam(r, "lessonID")
	if err := h.Lessons.Submit(r.Context(), user.ID, lessonID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	w.Write([]byte("Successfully submitted lesson " + lessonID))
}
