package models

const BookingConfirmed = "confirmed"

// TimeSlot is one bookable entry within an availability document. The
// booked flag is flipped in place, atomically with the booking create.
type TimeSlot struct {
	Time   string `json:"time" mapstructure:"time"`
	Booked bool   `json:"booked" mapstructure:"booked"`
}

// AvailabilitySlot is a tutor's published availability for one date.
type AvailabilitySlot struct {
	ID        string     `json:"id" mapstructure:"id,omitempty"`
	TutorID   string     `json:"tutorId" mapstructure:"tutorId"`
	Date      string     `json:"date" mapstructure:"date"`
	TimeSlots []TimeSlot `json:"timeSlots" mapstructure:"timeSlots"`
}

// Booking is a student's claim on one time entry of a slot.
type Booking struct {
	ID        string `json:"id" mapstructure:"id,omitempty"`
	TutorID   string `json:"tutorId" mapstructure:"tutorId"`
	StudentID string `json:"studentId" mapstructure:"studentId"`
	Date      string `json:"date" mapstructure:"date"`
	Time      string `json:"time" mapstructure:"time"`
	Status    string `json:"status" mapstructure:"status"`
}

// OpenSlot is one unbooked (tutor, time) entry returned by ListOpenSlots.
type OpenSlot struct {
	SlotID  string `json:"slotId"`
	TutorID string `json:"tutorId"`
	Time    string `json:"time"`
}

// PublishAvailabilityRequest is the parameter struct for the
// PublishAvailability function.
type PublishAvailabilityRequest struct {
	TutorID string   `json:"tutorID,omitempty"`
	Date    string   `json:"date"`
	Times   []string `json:"times"`
}

// BookRequest is the parameter struct for the Book function.
type BookRequest struct {
	StudentID string `json:"studentID,omitempty"`
	SlotID    string `json:"slotID"`
	Time      string `json:"time"`
}
