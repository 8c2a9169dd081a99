package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/chaos156/elearning/internal/auth"
	"github.com/chaos156/elearning/internal/models"
)

func (h *Handler) AvailabilityRoutes() *chi.Mux {
	router := chi.NewRouter()

	router.With(h.Auth.RequireRole(models.RoleTutor)).Post("/create", h.publishAvailabilityHandler)
	router.With(h.Auth.RequireAuth()).Get("/open", h.listOpenSlotsHandler)

	return router
}

func (h *Handler) BookingRoutes() *chi.Mux {
	router := chi.NewRouter()

	router.With(h.Auth.RequireRole(models.RoleStudent)).Post("/create", h.createBookingHandler)
	router.With(h.Auth.RequireRole(models.RoleStudent)).Get("/me", h.listMyBookingsHandler)
	router.With(h.Auth.RequireRole(models.RoleTutor)).Get("/tutor", h.listTutorBookingsHandler)

	return router
}

// POST: /create
func (h *Handler) publishAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req models.PublishAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.TutorID = user.ID

	id, err := h.Bookings.PublishAvailability(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, map[string]string{"id": id})
}

// GET: /open?date=
func (h *Handler) listOpenSlotsHandler(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Bookings.ListOpenSlots(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, slots)
}

// POST: /create
func (h *Handler) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req models.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.StudentID = user.ID

	id, err := h.Bookings.Book(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, map[string]string{"id": id})
}

// GET: /me
func (h *Handler) listMyBookingsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	bookings, err := h.Bookings.ListForStudent(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, bookings)
}

// GET: /tutor
func (h *Handler) listTutorBookingsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	bookings, err := h.Bookings.ListForTutor(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, bookings)
}
