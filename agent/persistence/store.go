package persistence

import (
	"context"
	"time"
)

// ExchangeKind distinguishes the two sub-agent transcripts of a role.
type ExchangeKind string

const (
	KindPropose ExchangeKind = "propose"
	KindDeclare ExchangeKind = "declare"
)

// Exchange is one committed invocation/response pair from a role's private
// deliberation history.
type Exchange struct {
	// ID is the unique identifier for the exchange.
	ID string `json:"id"`

	// NegotiationID identifies the negotiation run this exchange belongs to.
	NegotiationID string `json:"negotiation_id"`

	// Role is the name of the role that owns this exchange.
	Role string `json:"role"`

	// Kind is the sub-agent that produced the exchange.
	Kind ExchangeKind `json:"kind"`

	// Input is the invocation content presented to the agent.
	Input string `json:"input"`

	// Response is the agent's reply.
	Response string `json:"response"`

	// CreatedAt is when the exchange was committed.
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptStore persists committed exchanges per negotiation and role.
type TranscriptStore interface {
	// Append persists a single exchange.
	Append(ctx context.Context, ex *Exchange) error

	// History returns the exchanges committed for a role within a
	// negotiation, oldest first. A non-positive limit returns everything.
	History(ctx context.Context, negotiationID, role string, limit int) ([]*Exchange, error)

	// Close releases the store's resources.
	Close() error
}
