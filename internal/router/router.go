// Package router exposes the service operations over HTTP.
package router

import (
	"errors"
	"net/http"

	"github.com/chaos156/elearning/internal/apperrors"
	"github.com/chaos156/elearning/internal/auth"
	"github.com/chaos156/elearning/internal/booking"
	"github.com/chaos156/elearning/internal/course"
	"github.com/chaos156/elearning/internal/enrollment"
	"github.com/chaos156/elearning/internal/lessons"
	"github.com/chaos156/elearning/internal/progress"
)

// Handler bundles the services behind the HTTP routes. Everything is
// injected so tests can swap the store and identity provider.
type Handler struct {
	Auth        *auth.Service
	Courses     *course.Service
	Enrollments *enrollment.Ledger
	Lessons     *lessons.Service
	Progress    *progress.Aggregator
	Bookings    *booking.Service
}

// respondError maps the error kind to an HTTP status. Conflict errors keep
// their specific message so the client can tell a lost booking race from a
// generic failure.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidState):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}
