package ports

import "github.com/psiconecta/booking-system/internal/core/domain"

// Notifier pushes domain events to the affected users' realtime channels.
// Delivery is best-effort and must never block the caller.
type Notifier interface {
	PublishAppointmentEvent(event domain.AppointmentEvent)
}
