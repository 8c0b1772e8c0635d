package ports

import "context"

// PreferenceInput describes the checkout session requested from the external
// payment processor. ExternalReference is the appointment id and comes back
// on every callback as the correlation id.
type PreferenceInput struct {
	Title             string
	Amount            float64
	Currency          string
	ExternalReference string
}

// PreferenceResult identifies the created checkout session.
type PreferenceResult struct {
	PreferenceID string
	InitPoint    string
}

// ProcessorPayment is the processor's view of a payment, fetched when a
// callback arrives.
type ProcessorPayment struct {
	ID                string
	Status            string
	ExternalReference string
	ReceiptURL        string
}

// CheckoutProvider abstracts the external payment processor.
type CheckoutProvider interface {
	CreatePreference(ctx context.Context, input PreferenceInput) (*PreferenceResult, error)
	GetPayment(ctx context.Context, paymentID string) (*ProcessorPayment, error)
}
