package domain

import "time"

// Message is owned by its Conversation and is never addressed on its own.
type Message struct {
	Body      string
	Sender    Actor
	Lang      string // ISO 639-1, empty when detection was not confident
	CreatedAt time.Time
}
