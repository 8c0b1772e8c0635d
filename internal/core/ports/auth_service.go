package ports

import (
	"context"

	"github.com/psiconecta/booking-system/internal/core/domain"
)

// VerifiedIdentity is what an identity provider hands back after verifying
// an external credential. Token exchange mechanics live behind
// IdentityVerifier; the core only ever sees the verified result.
type VerifiedIdentity struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
}

// IdentityVerifier validates an external OAuth credential and returns the
// verified identity it belongs to.
type IdentityVerifier interface {
	Verify(ctx context.Context, provider, accessToken string) (*VerifiedIdentity, error)
}

// AuthService implements registration and both credential flows.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*domain.User, error)
	// Login returns a signed session token and the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// LoginExternal verifies an OAuth access token, linking or creating the
	// user as needed, and returns a session token in the same format.
	LoginExternal(ctx context.Context, provider, accessToken string) (string, *domain.User, error)
	// Me resolves the user behind an authenticated actor id.
	Me(ctx context.Context, userID string) (*domain.User, error)
}
