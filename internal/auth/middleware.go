package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/chaos156/elearning/internal/apperrors"
	"github.com/chaos156/elearning/internal/config"
	"github.com/chaos156/elearning/internal/models"
)

type contextKey string

const userContextKey contextKey = "currentUser"
const uidContextKey contextKey = "currentUID"

// RequireVerified rejects requests without a valid session cookie. It only
// verifies the credential and stores the UID in the context; it does not
// require a user profile to exist yet, so the signup route can use it.
func (s *Service) RequireVerified() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, err := s.verifyRequest(r)
			if err != nil {
				rejectUnauthorizedRequest(w)
				return
			}
			ctx := context.WithValue(r.Context(), uidContextKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without a valid session cookie or a
// registered user profile. The User associated with the request is added to
// the request context and can be accessed via GetUserFromRequest.
func (s *Service) RequireAuth() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, err := s.verifyRequest(r)
			if err != nil {
				rejectUnauthorizedRequest(w)
				return
			}
			user, err := s.GetUser(r.Context(), uid)
			if err != nil {
				rejectUnauthorizedRequest(w)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, uidContextKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole layers a role check on top of RequireAuth.
func (s *Service) RequireRole(role models.Role) func(handler http.Handler) http.Handler {
	requireAuth := s.RequireAuth()
	return func(next http.Handler) http.Handler {
		return requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := GetUserFromRequest(r)
			if err != nil || user.Role != role {
				rejectForbiddenRequest(w)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// GetUserFromRequest returns the User stored in the request context by
// RequireAuth.
func GetUserFromRequest(r *http.Request) (*models.User, error) {
	if user, ok := r.Context().Value(userContextKey).(*models.User); ok && user != nil {
		return user, nil
	}
	return nil, apperrors.ErrUserNotFound
}

// GetUIDFromRequest returns the verified UID stored in the request context
// by RequireVerified or RequireAuth.
func GetUIDFromRequest(r *http.Request) (string, error) {
	if uid, ok := r.Context().Value(uidContextKey).(string); ok && uid != "" {
		return uid, nil
	}
	return "", apperrors.ErrUserNotFound
}

func (s *Service) verifyRequest(r *http.Request) (string, error) {
	tokenCookie, err := r.Cookie(config.Config.SessionCookieName)
	if err != nil {
		return "", errors.New("missing session cookie")
	}
	return s.identity.VerifySessionCookie(r.Context(), tokenCookie.Value)
}

func rejectUnauthorizedRequest(w http.ResponseWriter) {
	http.Error(w, "You must be authenticated to access this resource", http.StatusUnauthorized)
}

func rejectForbiddenRequest(w http.ResponseWriter) {
	http.Error(w, "You do not have permission to access this resource", http.StatusForbidden)
}
