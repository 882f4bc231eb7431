package model

import "time"

const MessageTypeText = "text"

// ConversationMessage belongs to exactly one engagement request. Messages
// are append-only, never edited or deleted, and cascade with their request.
type ConversationMessage struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
