package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/chaos156/elearning/internal/auth"
	"github.com/chaos156/elearning/internal/models"
)

func (h *Handler) DashboardRoutes() *chi.Mux {
	router := chi.NewRouter()

	router.With(h.Auth.RequireRole(models.RoleStudent)).Get("/student", h.studentDashboardHandler)
	router.With(h.Auth.RequireRole(models.RoleTutor)).Get("/tutor", h.tutorDashboardHandler)

	return router
}

// GET: /student
func (h *Handler) studentDashboardHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	stats, err := h.Progress.StudentProgress(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, stats)
}

// GET: /tutor
func (h *Handler) tutorDashboardHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	overview, err := h.Progress.TutorOverview(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, overview)
}
