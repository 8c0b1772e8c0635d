package domain

import "time"

// Message is directed, timestamped text between two users. Messages are
// independent of appointments; ordering is by creation time per
// sender/receiver pair.
type Message struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	SenderID   string    `json:"sender_id" bson:"sender_id"`
	ReceiverID string    `json:"receiver_id" bson:"receiver_id"`
	Content    string    `json:"content" bson:"content"`
	Read       bool      `json:"read" bson:"read"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
