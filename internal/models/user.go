package models

type Role string

const (
	RoleStudent Role = "Student"
	RoleTutor   Role = "Tutor"
)

// User represents a registered user. The document ID is the Firebase Auth
// UID. Role is written once at signup and never updated.
type User struct {
	ID    string `json:"id" mapstructure:"id,omitempty"`
	Email string `json:"email" mapstructure:"email"`
	Role  Role   `json:"role" mapstructure:"role"`
	Name  string `json:"name" mapstructure:"name"`
	Bio   string `json:"bio,omitempty" mapstructure:"bio"`
}

// SignUpRequest is the parameter struct for the SignUp function.
type SignUpRequest struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
}

// UpdateProfileRequest is the parameter struct for the UpdateProfile
// function. Only name and bio are editable.
type UpdateProfileRequest struct {
	UserID string `json:"userID,omitempty"`
	Name   string `json:"name"`
	Bio    string `json:"bio"`
}
