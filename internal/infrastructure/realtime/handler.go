package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/core/ports"
	"github.com/psiconecta/booking-system/internal/pkg/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; tighten in production.
	},
}

// Handler upgrades HTTP connections to websockets, authenticates the
// handshake, and routes inbound client events.
type Handler struct {
	hub       *Hub
	messages  ports.MessageRepository
	jwtSecret string
	log       zerolog.Logger
}

func NewHandler(hub *Hub, messages ports.MessageRepository, jwtSecret string, log zerolog.Logger) *Handler {
	return &Handler{hub: hub, messages: messages, jwtSecret: jwtSecret, log: log}
}

// inboundEvent frames every client→server event.
type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type sendMessageData struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

type appointmentUpdateData struct {
	AppointmentID string `json:"appointmentId"`
	Status        string `json:"status"`
	UserID        string `json:"userId"`
}

// Connect handles GET /ws. The handshake credential is the same session
// token used for HTTP calls, passed as a query parameter or bearer header;
// connections without a valid, unexpired token are rejected before any
// channel membership is created.
func (h *Handler) Connect(c echo.Context) error {
	claims, err := h.authenticate(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID: claims.UserID,
		Role:   claims.Role,
		Send:   make(chan []byte, sendBuffer),
	}
	if !h.hub.Register(client) {
		// Hub is draining; refuse the connection.
		_ = ws.Close()
		return nil
	}

	h.log.Debug().Str("user_id", client.UserID).Msg("websocket connected")

	go h.writePump(client, ws)
	go h.readPump(client, ws)

	return nil
}

func (h *Handler) authenticate(c echo.Context) (*token.Claims, error) {
	raw := c.QueryParam("token")
	if raw == "" {
		header := c.Request().Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			raw = parts[1]
		}
	}
	return token.Parse(h.jwtSecret, raw)
}

// readPump reads client events until the connection drops, then drops the
// channel membership.
func (h *Handler) readPump(client *Client, ws *websocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		_ = ws.Close()
		h.log.Debug().Str("user_id", client.UserID).Msg("websocket disconnected")
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var ev inboundEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue // Ignore malformed frames.
		}
		h.handleEvent(client, ev)
	}
}

func (h *Handler) handleEvent(client *Client, ev inboundEvent) {
	switch ev.Event {
	case "send_message":
		var data sendMessageData
		if err := json.Unmarshal(ev.Data, &data); err != nil || data.ReceiverID == "" || data.Content == "" {
			return
		}
		h.relayMessage(client, data)
	case "appointment_update":
		var data appointmentUpdateData
		if err := json.Unmarshal(ev.Data, &data); err != nil || data.UserID == "" {
			return
		}
		h.hub.PublishAppointmentEvent(domain.AppointmentEvent{
			Type:          "appointment_update",
			AppointmentID: data.AppointmentID,
			Status:        data.Status,
			Recipients:    []string{data.UserID},
			OccurredAt:    time.Now().UTC(),
		})
	}
}

// relayMessage persists the message and delivers it to the receiver's
// channel. Delivery is fire-and-forget and proceeds even when the store
// write fails; durability and delivery are separate concerns.
func (h *Handler) relayMessage(client *Client, data sendMessageData) {
	msg := &domain.Message{
		ID:         uuid.New().String(),
		SenderID:   client.UserID,
		ReceiverID: data.ReceiverID,
		Content:    data.Content,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.messages.Create(ctx, msg); err != nil {
		h.log.Warn().Err(err).Str("sender_id", msg.SenderID).Msg("failed to persist message")
	}

	h.hub.DeliverMessage(data.ReceiverID, msg)
}

// writePump writes queued events to the socket until the send channel is
// closed by Unregister or Drain.
func (h *Handler) writePump(client *Client, ws *websocket.Conn) {
	defer ws.Close()

	for data := range client.Send {
		if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
}
