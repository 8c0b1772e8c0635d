package ports

import (
	"context"

	"github.com/psiconecta/booking-system/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIdentity looks a user up by linked external identity.
	FindByIdentity(ctx context.Context, provider, providerID string) (*domain.User, error)
	// ListByRole returns all users with the given role.
	ListByRole(ctx context.Context, role string) ([]*domain.User, error)
	// Update applies the patch and returns the updated record.
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
}

// UserPatch carries partial profile updates. Nil fields retain their prior
// value.
type UserPatch struct {
	Name             *string
	ProfilePicture   *string
	PhoneNumber      *string
	DateOfBirth      *string
	EmergencyContact *string
	Identities       []domain.ExternalIdentity
}
