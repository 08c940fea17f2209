package event

import (
	"talk-gate/domain"
	"time"
)

// Type names a notification sent to an identity.
type Type string

const (
	ConversationPermissionAsked   Type = "conversationPermissionAsked"
	ConversationPermissionGranted Type = "conversationPermissionGranted"
	ConversationPermissionDenied  Type = "conversationPermissionDenied"
	ConversationEnded             Type = "conversationEnded"
	PrivateMessageReceived        Type = "privateMessageReceived"
)

// Notification is what the core hands to a NotificationSink.
// Payload is optional and event specific ("message" for PrivateMessageReceived).
type Notification struct {
	Type           Type
	Recipient      domain.Actor
	From           domain.Actor
	ConversationID string
	Payload        map[string]string
	At             time.Time
}
