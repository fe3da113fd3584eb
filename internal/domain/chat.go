package domain

import "time"

type Message struct {
	ID         int64     `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Conversation is one row of the per-user conversation aggregate: the other
// participant plus the latest message between the two.
type Conversation struct {
	OtherUserID   string    `json:"otherUserId"`
	OtherUsername string    `json:"otherUsername,omitempty"`
	LastMessage   string    `json:"lastMessage,omitempty"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}
