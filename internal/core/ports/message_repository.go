package ports

import (
	"context"

	"github.com/psiconecta/booking-system/internal/core/domain"
)

// MessageRepository defines persistence for directed messages. The store
// owns message durability; realtime delivery is a separate concern.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	// ListConversation returns messages exchanged between two users ordered
	// by creation time ascending.
	ListConversation(ctx context.Context, userA, userB string) ([]*domain.Message, error)
}
