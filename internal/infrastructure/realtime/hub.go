// Package realtime implements the notification hub: authenticated
// websocket connections registered under per-user channels, with directed
// message and notification events routed to the affected party.
package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/psiconecta/booking-system/internal/api/metrics"
	"github.com/psiconecta/booking-system/internal/core/domain"
)

const sendBuffer = 256

// Client represents a single authenticated websocket connection. One user
// may hold several clients (multiple devices); all of them receive the same
// broadcasts.
type Client struct {
	UserID string
	Role   string
	Send   chan []byte
}

// Hub is the connection registry. It is the only concurrently mutated
// in-process state in the system; registration, deregistration, and
// delivery are safe under concurrent connection churn.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Client]struct{} // channel key -> connections
	draining bool
	log      zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		channels: make(map[string]map[*Client]struct{}),
		log:      log,
	}
}

// channelKey is the logical routing key for a user's connections.
func channelKey(userID string) string {
	return "user:" + userID
}

// Register adds a client under its user channel. Registration fails once
// the hub is draining.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.draining {
		return false
	}

	key := channelKey(client.UserID)
	if h.channels[key] == nil {
		h.channels[key] = make(map[*Client]struct{})
	}
	h.channels[key][client] = struct{}{}

	metrics.WebsocketConnections.Inc()
	return true
}

// Unregister drops the client's channel membership and closes its send
// channel. No further delivery attempts are made to it.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := channelKey(client.UserID)
	conns, ok := h.channels[key]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}

	delete(conns, client)
	if len(conns) == 0 {
		delete(h.channels, key)
	}
	close(client.Send)

	metrics.WebsocketConnections.Dec()
}

// send delivers raw bytes to every connection on the user's channel.
// Best-effort: a slow or disconnected peer is skipped, never blocked on.
func (h *Hub) send(userID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.channels[channelKey(userID)] {
		select {
		case client.Send <- data:
		default:
			// Client buffer full; skip to avoid blocking.
		}
	}
}

// envelope frames every server→client event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// messagePayload is the server→client "message" event.
type messagePayload struct {
	ID        string `json:"id"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	Read      bool   `json:"read"`
}

// notificationPayload is the server→client "notification" event.
type notificationPayload struct {
	Type          string `json:"type"`
	AppointmentID string `json:"appointmentId"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	Timestamp     string `json:"timestamp"`
}

// DeliverMessage pushes a chat message to the receiver's channel.
// Fire-and-forget; persistence is owned by the message store.
func (h *Hub) DeliverMessage(receiverID string, m *domain.Message) {
	data, err := json.Marshal(envelope{Event: "message", Data: messagePayload{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		Read:      m.Read,
	}})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal message event")
		return
	}
	h.send(receiverID, data)
	metrics.NotificationsSentTotal.WithLabelValues("message").Inc()
}

// PublishAppointmentEvent implements ports.Notifier: a templated
// notification is delivered to each affected user's channel.
func (h *Hub) PublishAppointmentEvent(ev domain.AppointmentEvent) {
	data, err := json.Marshal(envelope{Event: "notification", Data: notificationPayload{
		Type:          ev.Type,
		AppointmentID: ev.AppointmentID,
		Status:        ev.Status,
		Message:       notificationText(ev),
		Timestamp:     ev.OccurredAt.UTC().Format(time.RFC3339),
	}})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal notification event")
		return
	}
	for _, userID := range ev.Recipients {
		h.send(userID, data)
		metrics.NotificationsSentTotal.WithLabelValues("notification").Inc()
	}
}

func notificationText(ev domain.AppointmentEvent) string {
	if ev.Type == domain.EventPaymentUpdated {
		return fmt.Sprintf("Payment for your appointment is %s", ev.Status)
	}
	return fmt.Sprintf("Your appointment has been %s", ev.Status)
}

// ConnectionCount returns the total number of registered connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conns := range h.channels {
		n += len(conns)
	}
	return n
}

// Drain stops accepting new registrations and closes every connected
// client's send channel, letting write pumps finish and close the sockets.
func (h *Hub) Drain() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.draining = true
	for key, conns := range h.channels {
		for client := range conns {
			close(client.Send)
			metrics.WebsocketConnections.Dec()
		}
		delete(h.channels, key)
	}
}
