package domain

import "time"

const (
	RolePsychologist = "psychologist"
	RolePatient      = "patient"
	RoleAdmin        = "admin"
)

// ValidRole reports whether role is one of the three supported roles.
func ValidRole(role string) bool {
	return role == RolePsychologist || role == RolePatient || role == RoleAdmin
}

// ExternalIdentity links a user to an OAuth provider account.
type ExternalIdentity struct {
	Provider   string `json:"provider" bson:"provider"`
	ProviderID string `json:"provider_id" bson:"provider_id"`
}

// User models an authenticated actor in the system. Role is immutable after
// assignment.
type User struct {
	ID               string             `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Email            string             `json:"email" bson:"email"`
	PasswordHash     string             `json:"-" bson:"password_hash,omitempty"`
	Role             string             `json:"role" bson:"role"`
	ProfilePicture   string             `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	PhoneNumber      string             `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	DateOfBirth      string             `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	EmergencyContact string             `json:"emergency_contact,omitempty" bson:"emergency_contact,omitempty"`
	Identities       []ExternalIdentity `json:"-" bson:"identities,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}
