package ports

import (
	"context"

	"github.com/psiconecta/booking-system/internal/core/domain"
)

// PaymentPatch carries partial updates applied as a single atomic write.
type PaymentPatch struct {
	Status        *domain.PaymentStatus
	Amount        *float64
	Currency      *string
	PreferenceID  *string
	TransactionID *string
	ReceiptURL    *string
}

// PaymentRepository defines persistence operations for payments. At most one
// payment record exists per appointment; re-initiating checkout resets it.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	FindByAppointmentID(ctx context.Context, appointmentID string) (*domain.Payment, error)
	Update(ctx context.Context, id string, patch PaymentPatch) (*domain.Payment, error)
	// ListByAppointmentIDs returns payments for the given appointments,
	// newest first.
	ListByAppointmentIDs(ctx context.Context, appointmentIDs []string) ([]*domain.Payment, error)
}
