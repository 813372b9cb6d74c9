package negotiation

import (
	"github.com/BaSui01/macd/types"
)

// Stage identifies a phase of the negotiation state machine.
type Stage string

const (
	StageCollaborate  Stage = "Collaborate"
	StageDebate       Stage = "Debate"
	StageUserFeedback Stage = "UserFeedback"
	StageEnd          Stage = "End"
)

// StageState is the tagged union of per-stage payloads. Exactly the four
// concrete types below implement it. Handlers take the concrete payload
// type, so the compiler guarantees a Collaborate handler never observes a
// feedback payload.
type StageState interface {
	Stage() Stage
}

// CollaborateState is the payload of the Collaborate stage.
type CollaborateState struct {
	// Queue is the speaker rotation, FIFO. Each role appears at most once.
	// Popped on round entry; the speaker is pushed back only on acceptance.
	Queue []types.Role

	// Best is the best proposal accepted so far. Nil before the first
	// acceptance; replaced, never merged.
	Best *types.Proposal

	// Divergences accumulated since the last feedback drain. Append-only
	// within the Collaborate phase.
	Divergences []types.Divergence
}

func (*CollaborateState) Stage() Stage { return StageCollaborate }

// FeedbackState is the payload of the UserFeedback stage: the proposal on
// the floor and the full divergence log to arbitrate.
type FeedbackState struct {
	Best        *types.Proposal
	Divergences []types.Divergence
}

func (*FeedbackState) Stage() Stage { return StageUserFeedback }

// DebateState is the payload of the Debate stage. The stage is an extension
// point: the reference protocol passes it through unchanged.
type DebateState struct {
	Best *types.Proposal
}

func (*DebateState) Stage() Stage { return StageDebate }

// EndState is the terminal payload: the proposals of every preference
// selected across the whole negotiation, in first-selected order.
type EndState struct {
	Proposals []types.Proposal
}

func (*EndState) Stage() Stage { return StageEnd }
