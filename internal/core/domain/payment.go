package domain

import "time"

// PaymentStatus represents the internal state of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// SupportedCurrencies is the fixed set of currencies accepted at checkout.
var SupportedCurrencies = []string{"ARS", "BRL", "CLP", "MXN", "COP", "PEN", "UYU"}

// Payment is the one-to-one payment lifecycle attached to an appointment.
// It transitions only in response to verified processor callbacks, never
// from direct user input.
type Payment struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	AppointmentID string        `json:"appointment_id" bson:"appointment_id"`
	Amount        float64       `json:"amount" bson:"amount"`
	Currency      string        `json:"currency" bson:"currency"`
	Status        PaymentStatus `json:"status" bson:"status"`
	PaymentMethod string        `json:"payment_method" bson:"payment_method"`
	PreferenceID  string        `json:"preference_id,omitempty" bson:"preference_id,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	ReceiptURL    string        `json:"receipt_url,omitempty" bson:"receipt_url,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// MapProcessorStatus projects an external processor status string onto the
// internal payment status. This is the single mapping table; the
// appointment's payment_status field must always equal
// ProjectPaymentStatus(MapProcessorStatus(latest callback)).
func MapProcessorStatus(processorStatus string) PaymentStatus {
	switch processorStatus {
	case "approved":
		return PaymentStatusPaid
	case "refunded":
		return PaymentStatusRefunded
	default:
		return PaymentStatusPending
	}
}

// ProjectPaymentStatus maps an internal payment status onto the
// appointment-side projection.
func ProjectPaymentStatus(s PaymentStatus) PaymentProjection {
	switch s {
	case PaymentStatusPaid:
		return PaymentPaid
	case PaymentStatusRefunded:
		return PaymentRefunded
	default:
		return PaymentPending
	}
}
