package ports

import (
	"context"

	"github.com/psiconecta/booking-system/internal/core/authz"
	"github.com/psiconecta/booking-system/internal/core/domain"
)

// CreateCheckoutInput carries the parameters for initiating checkout.
type CreateCheckoutInput struct {
	AppointmentID string
	Amount        float64
	Currency      string
}

// CheckoutResult is returned after a checkout preference has been created.
type CheckoutResult struct {
	PaymentID    string
	PreferenceID string
	// InitPoint is the redirect target for the external checkout page.
	InitPoint string
}

// PaymentService creates checkout sessions and exposes payment history.
type PaymentService interface {
	// CreateCheckout registers a pending payment and returns the external
	// checkout redirect. Only the owning appointment's patient may pay.
	CreateCheckout(ctx context.Context, actor authz.Actor, input CreateCheckoutInput) (*CheckoutResult, error)
	// History returns payments for appointments where the actor is a
	// participant, newest first.
	History(ctx context.Context, actor authz.Actor) ([]*domain.Payment, error)
}
