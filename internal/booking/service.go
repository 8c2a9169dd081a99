// Package booking manages tutor-published availability and student
// bookings. Claiming a time entry and creating the booking record happen in
// one store transaction, closing the read-then-write race that loses
// concurrent bookings.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chaos156/elearning/internal/apperrors"
	"github.com/chaos156/elearning/internal/models"
	"github.com/chaos156/elearning/internal/store"
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// PublishAvailability creates an availability document for the tutor with
// every time entry unbooked. The date and at least one non-blank time are
// required.
func (s *Service) PublishAvailability(ctx context.Context, req *models.PublishAvailabilityRequest) (string, error) {
	if strings.TrimSpace(req.Date) == "" {
		return "", fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	}
	if len(req.Times) == 0 {
		return "", fmt.Errorf("%w: at least one time slot is required", apperrors.ErrValidation)
	}

	timeSlots := make([]map[string]interface{}, 0, len(req.Times))
	for _, t := range req.Times {
		if strings.TrimSpace(t) == "" {
			return "", fmt.Errorf("%w: blank time slot", apperrors.ErrValidation)
		}
		timeSlots = append(timeSlots, map[string]interface{}{
			"time":   t,
			"booked": false,
		})
	}

	return s.store.Create(ctx, models.FirestoreAvailabilityCollection, map[string]interface{}{
		"tutorId":   req.TutorID,
		"date":      req.Date,
		"timeSlots": timeSlots,
	})
}

// ListOpenSlots returns every unbooked (tutor, time) entry across all
// tutors for the given date.
func (s *Service) ListOpenSlots(ctx context.Context, date string) ([]models.OpenSlot, error) {
	docs, err := s.store.Query(ctx, models.FirestoreAvailabilityCollection,
		store.Filter{Field: "date", Value: date},
	)
	if err != nil {
		return nil, err
	}

	open := make([]models.OpenSlot, 0)
	for _, doc := range docs {
		var slot models.AvailabilitySlot
		if err := doc.DataTo(&slot); err != nil {
			return nil, err
		}
		for _, entry := range slot.TimeSlots {
			if !entry.Booked {
				open = append(open, models.OpenSlot{
					SlotID:  doc.ID,
					TutorID: slot.TutorID,
					Time:    entry.Time,
				})
			}
		}
	}
	return open, nil
}

// Book atomically claims a time entry for the student: it verifies the
// entry is unbooked, flips it, and creates the booking record in a single
// transaction. A concurrent caller that lost the race gets ErrSlotTaken.
func (s *Service) Book(ctx context.Context, req *models.BookRequest) (string, error) {
	if req.SlotID == "" || strings.TrimSpace(req.Time) == "" {
		return "", fmt.Errorf("%w: slot and time are required", apperrors.ErrValidation)
	}

	var bookingID string
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		doc, err := tx.Get(models.FirestoreAvailabilityCollection, req.SlotID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrSlotNotFound
			}
			return err
		}
		var slot models.AvailabilitySlot
		if err := doc.DataTo(&slot); err != nil {
			return err
		}

		found := false
		updated := make([]map[string]interface{}, 0, len(slot.TimeSlots))
		for _, entry := range slot.TimeSlots {
			if entry.Time == req.Time {
				if entry.Booked {
					return apperrors.ErrSlotTaken
				}
				entry.Booked = true
				found = true
			}
			updated = append(updated, map[string]interface{}{
				"time":   entry.Time,
				"booked": entry.Booked,
			})
		}
		if !found {
			return fmt.Errorf("%w: time %v not offered", apperrors.ErrNotFound, req.Time)
		}

		if err := tx.Update(models.FirestoreAvailabilityCollection, req.SlotID, []store.Update{
			{Field: "timeSlots", Value: updated},
		}); err != nil {
			return err
		}

		bookingID, err = tx.Create(models.FirestoreBookingsCollection, map[string]interface{}{
			"tutorId":   slot.TutorID,
			"studentId": req.StudentID,
			"date":      slot.Date,
			"time":      req.Time,
			"status":    models.BookingConfirmed,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return bookingID, nil
}

// ListForStudent returns the student's bookings.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]*models.Booking, error) {
	return s.listBookings(ctx, store.Filter{Field: "studentId", Value: studentID})
}

// ListForTutor returns the bookings made against the tutor's slots.
func (s *Service) ListForTutor(ctx context.Context, tutorID string) ([]*models.Booking, error) {
	return s.listBookings(ctx, store.Filter{Field: "tutorId", Value: tutorID})
}

func (s *Service) listBookings(ctx context.Context, filter store.Filter) ([]*models.Booking, error) {
	docs, err := s.store.Query(ctx, models.FirestoreBookingsCollection, filter)
	if err != nil {
		return nil, err
	}
	bookings := make([]*models.Booking, 0, len(docs))
	for _, doc := range docs {
		var b models.Booking
		if err := doc.DataTo(&b); err != nil {
			return nil, err
		}
		b.ID = doc.ID
		bookings = append(bookings, &b)
	}
	return bookings, nil
}
