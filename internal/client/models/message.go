package models

import (
	"time"

	"github.com/google/uuid"
)

// Sender tags who authored a message. The tag is fixed at creation.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ParseSender maps the wire value to a Sender. Anything other than "user"
// is a bot reply.
func ParseSender(s string) Sender {
	if s == string(SenderUser) {
		return SenderUser
	}
	return SenderBot
}

// Message is one transcript line.
type Message struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Content   string
	Sender    Sender
	CreatedAt time.Time
}

// MessagesUpdate is one push from a live message subscription: either the
// full ordered snapshot of the session's messages or a terminal error.
type MessagesUpdate struct {
	Messages []Message
	Err      error
}

// BotReply is the result of the bot-reply trigger.
type BotReply struct {
	Reply string `json:"reply"`
}
