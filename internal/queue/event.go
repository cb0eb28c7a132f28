// Package queue defines the auth audit events exchanged over RabbitMQ and
// the publisher and consumer that move them.
package queue

import "time"

// AuthEventsQueue is the durable queue carrying AuthEvent messages.
const AuthEventsQueue = "auth.events"

// Event types.
const (
	EventUserRegistered = "user.registered"
	EventSessionOpened  = "session.opened"
	EventSessionRevoked = "session.revoked"
)

// AuthEvent is published after a registration, login or logout. It never
// carries secrets: TokenID is the token's jti, not the token.
type AuthEvent struct {
	Type       string    `json:"type"`
	UserID     uint64    `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	TokenID    string    `json:"token_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
