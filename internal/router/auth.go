package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/chaos156/elearning/internal/auth"
	"github.com/chaos156/elearning/internal/models"
)

func (h *Handler) UserRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Signup only needs a verified credential; the profile does not exist yet.
	router.With(h.Auth.RequireVerified()).Post("/signup", h.signUpHandler)

	router.Route("/", func(r chi.Router) {
		r.Use(h.Auth.RequireAuth())
		r.Get("/me", h.getMeHandler)
		r.Get("/{userID}", h.getUserHandler)
		r.Post("/profile", h.updateProfileHandler)
	})

	return router
}

// POST: /signup
func (h *Handler) signUpHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.GetUIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Auth.SignUp(r.Context(), uid, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, user)
}

// GET: /me
func (h *Handler) getMeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	render.JSON(w, r, user)
}

// GET: /{userID}
func (h *Handler) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, user)
}

// POST: /profile
func (h *Handler) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.UserID = user.ID

	if err := h.Auth.UpdateProfile(r.Context(), &req); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	w.Write([]byte("Successfully updated profile"))
}
