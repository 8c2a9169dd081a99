// Package auth manages user profiles and authenticates requests. The
// credential check itself belongs to the identity provider; this package
// only consumes verified user IDs.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/chaos156/elearning/internal/apperrors"
	"github.com/chaos156/elearning/internal/models"
	"github.com/chaos156/elearning/internal/store"
)

type Service struct {
	store    store.Store
	identity Identity
}

func NewService(s store.Store, identity Identity) *Service {
	return &Service{store: s, identity: identity}
}

// SignUp writes the user document for a freshly authenticated account. The
// role is fixed at signup and never changes afterwards; signing up an ID
// that already has a profile fails with a conflict.
func (s *Service) SignUp(ctx context.Context, userID string, req *models.SignUpRequest) (*models.User, error) {
	if req.Role != models.RoleStudent && req.Role != models.RoleTutor {
		return nil, apperrors.ErrInvalidRole
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	if _, err := s.store.Get(ctx, models.FirestoreUsersCollection, userID); err == nil {
		return nil, fmt.Errorf("%w: user already registered", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &models.User{
		ID:    userID,
		Email: req.Email,
		Role:  req.Role,
		Name:  req.Name,
	}
	err := s.store.Set(ctx, models.FirestoreUsersCollection, userID, map[string]interface{}{
		"email": user.Email,
		"role":  string(user.Role),
		"name":  user.Name,
		"bio":   "",
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user profile: %v", err)
	}
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	doc, err := s.store.Get(ctx, models.FirestoreUsersCollection, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	user.ID = doc.ID
	return &user, nil
}

// UpdateProfile updates the editable profile fields. Role and email are
// deliberately not part of the patch.
func (s *Service) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) error {
	err := s.store.Update(ctx, models.FirestoreUsersCollection, req.UserID, []store.Update{
		{Field: "name", Value: req.Name},
		{Field: "bio", Value: req.Bio},
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.ErrUserNotFound
	}
	return err
}
