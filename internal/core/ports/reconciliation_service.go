package ports

import "context"

// CallbackInput is the DTO passed from the webhook transport to the
// reconciliation service. The processor pushes only an opaque payment id;
// status and correlation id are resolved through the CheckoutProvider.
type CallbackInput struct {
	ProcessorPaymentID string
}

// ReconciliationService translates processor callbacks into payment and
// appointment state transitions. Processing must be idempotent under
// callback replay.
type ReconciliationService interface {
	Process(ctx context.Context, input CallbackInput) error
}
