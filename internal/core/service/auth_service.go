package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
	"github.com/psiconecta/booking-system/internal/pkg/token"
)

// AuthService implements registration and both login flows.
type AuthService struct {
	repo      ports.UserRepository
	verifier  ports.IdentityVerifier
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, verifier ports.IdentityVerifier, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, verifier: verifier, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email reads the same as a bad password to the caller.
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := token.Sign(s.jwtSecret, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, user, nil
}

// LoginExternal verifies an OAuth access token and issues a session token in
// the same format as password login. Users are matched by linked identity
// first, then by email (linking the identity), and created as patients when
// neither exists.
func (s *AuthService) LoginExternal(ctx context.Context, provider, accessToken string) (string, *domain.User, error) {
	identity, err := s.verifier.Verify(ctx, provider, accessToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByIdentity(ctx, identity.Provider, identity.ProviderID)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.linkOrCreate(ctx, identity)
	}
	if err != nil {
		return "", nil, err
	}

	tok, err := token.Sign(s.jwtSecret, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, user, nil
}

func (s *AuthService) linkOrCreate(ctx context.Context, identity *ports.VerifiedIdentity) (*domain.User, error) {
	ext := domain.ExternalIdentity{Provider: identity.Provider, ProviderID: identity.ProviderID}

	existing, err := s.repo.FindByEmail(ctx, identity.Email)
	if err == nil {
		return s.repo.Update(ctx, existing.ID, ports.UserPatch{
			Identities: append(existing.Identities, ext),
		})
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.User{
		ID:         uuid.New().String(),
		Name:       identity.Name,
		Email:      identity.Email,
		Role:       domain.RolePatient,
		Identities: []domain.ExternalIdentity{ext},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}
