// Package identity implements ports.IdentityVerifier by fetching the
// profile behind an OAuth access token from the provider's userinfo
// endpoint. Token exchange itself happens on the frontend; the backend only
// ever sees the resulting access token.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

var userinfoEndpoints = map[string]string{
	"google":   "https://www.googleapis.com/oauth2/v3/userinfo",
	"facebook": "https://graph.facebook.com/me?fields=id,name,email",
	"linkedin": "https://api.linkedin.com/v2/userinfo",
}

type Verifier struct {
	http      *http.Client
	endpoints map[string]string
}

func NewVerifier() *Verifier {
	return &Verifier{
		http:      &http.Client{Timeout: defaultTimeout},
		endpoints: userinfoEndpoints,
	}
}

type userinfoResponse struct {
	// google and linkedin use "sub", facebook uses "id"
	Sub   string `json:"sub"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Verify resolves the access token to a verified external identity. Unknown
// providers and rejected tokens surface as invalid credentials.
func (v *Verifier) Verify(ctx context.Context, provider, accessToken string) (*ports.VerifiedIdentity, error) {
	endpoint, ok := v.endpoints[provider]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: %s userinfo: %w", provider, domain.ErrExternalService)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, domain.ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity: %s userinfo status %d: %w", provider, resp.StatusCode, domain.ErrExternalService)
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("identity: decode userinfo: %w", err)
	}

	providerID := info.Sub
	if providerID == "" {
		providerID = info.ID
	}
	if providerID == "" || info.Email == "" {
		return nil, domain.ErrInvalidCredentials
	}

	return &ports.VerifiedIdentity{
		Provider:   provider,
		ProviderID: providerID,
		Email:      info.Email,
		Name:       info.Name,
	}, nil
}
