package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/chaos156/elearning/internal/auth"
	"github.com/chaos156/elearning/internal/models"
)

func (h *Handler) EnrollmentRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Student side
	router.With(h.Auth.RequireRole(models.RoleStudent)).Post("/request", h.requestEnrollmentHandler)
	router.With(h.Auth.RequireRole(models.RoleStudent)).Post("/cancel/{enrollmentID}", h.cancelEnrollmentHandler)
	router.With(h.Auth.RequireRole(models.RoleStudent)).Get("/me", h.listMyEnrollmentsHandler)

	// Tutor side
	router.With(h.Auth.RequireRole(models.RoleTutor)).Post("/approve/{enrollmentID}", h.approveEnrollmentHandler)
	router.With(h.Auth.RequireRole(models.RoleTutor)).Post("/reject/{enrollmentID}", h.rejectEnrollmentHandler)
	router.With(h.Auth.RequireRole(models.RoleTutor)).Get("/pending", h.listPendingEnrollmentsHandler)

	return router
}

// POST: /request
func (h *Handler) requestEnrollmentHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req struct {
		CourseID string `json:"courseID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.Enrollments.Request(r.Context(), user.ID, req.CourseID)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, map[string]string{"id": id})
}

// POST: /approve/{enrollmentID}
func (h *Handler) approveEnrollmentHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	enrollmentID := chi.URLParam(r, "enrollmentID")
	if err := h.Enrollments.Approve(r.Context(), enrollmentID, user.ID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	w.Write([]byte("Successfully approved enrollment " + enrollmentID))
}

// POST: /reject/{enrollmentID}
func (h *Handler) rejectEnrollmentHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	enrollmentID := chi.URLParam(r, "enrollmentID")
	if err := h.Enrollments.Reject(r.Context(), enrollmentID, user.ID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	w.Write([]byte("Successfully rejected enrollment " + enrollmentID))
}

// POST: /cancel/{enrollmentID}
func (h *Handler) cancelEnrollmentHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	enrollmentID := chi.URLParam(r, "enrollmentID")
	if err := h.Enrollments.Cancel(r.Context(), enrollmentID, user.ID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	w.Write([]byte("Successfully cancelled enrollment " + enrollmentID))
}

// GET: /pending
func (h *Handler) listPendingEnrollmentsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	pending, err := h.Enrollments.ListPendingForTutor(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, pending)
}

// GET: /me
func (h *Handler) listMyEnrollmentsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	enrollments, err := h.Enrollments.ListForStudent(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, enrollments)
}
