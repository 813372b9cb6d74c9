package types

import (
	"fmt"
	"strings"
)

// Role is a named party with a fixed position on the topic under negotiation.
// Identity is Name, which must be unique within a negotiation. A Role is
// created once at negotiation start and never mutated.
type Role struct {
	Topic    string `json:"topic"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

func (r Role) String() string {
	return fmt.Sprintf("%s (position: %s)", r.Name, r.Position)
}

// Proposal is a candidate solution attributed to the role that authored it.
// Immutable once created; a new round produces a new Proposal rather than
// mutating an existing one.
type Proposal struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

func (p Proposal) String() string {
	return fmt.Sprintf("%s proposed:\n\n%s", p.Role, p.Text)
}

// Objection is one dissenting role's stated reason for rejecting a proposal.
type Objection struct {
	Role   Role   `json:"role"`
	Reason string `json:"reason"`
}

func (o Objection) String() string {
	return fmt.Sprintf("%s objected:\n\n%s", o.Role, o.Reason)
}

// Divergence is a proposal that failed to reach unanimity in some round,
// paired with every objection raised against it. It is an append-only log
// entry and is never mutated after creation.
type Divergence struct {
	Proposal   Proposal    `json:"proposal"`
	Objections []Objection `json:"objections"`
}

// NewDivergence builds a Divergence from a rejected proposal and its
// objections. A divergence with zero objections is invalid and is refused.
func NewDivergence(proposal Proposal, objections []Objection) (Divergence, error) {
	if len(objections) == 0 {
		return Divergence{}, NewError(ErrPrecondition, "divergence requires at least one objection")
	}
	objs := make([]Objection, len(objections))
	copy(objs, objections)
	return Divergence{Proposal: proposal, Objections: objs}, nil
}

func (d Divergence) String() string {
	var b strings.Builder
	b.WriteString(d.Proposal.String())
	b.WriteString("\n\nObjections:\n")
	for _, o := range d.Objections {
		b.WriteString("\n")
		b.WriteString(o.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Preference is a human-endorsed proposal drawn from a divergence, fed back
// into subsequent rounds as soft guidance. Reason is optional free text.
type Preference struct {
	Proposal Proposal `json:"proposal"`
	Reason   string   `json:"reason,omitempty"`
}

func (p Preference) String() string {
	if p.Reason == "" {
		return fmt.Sprintf("The user prefers the following proposal:\n\n%s", p.Proposal)
	}
	return fmt.Sprintf("The user prefers the following proposal:\n\n%s\n\nBecause:\n\n%s", p.Proposal, p.Reason)
}

// Preferences is an insertion-ordered, append-only collection of preferences.
type Preferences []Preference

func (ps Preferences) String() string {
	if len(ps) == 0 {
		return "(none yet)"
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, "\n\n")
}

// Proposals projects the preferences to their proposals, preserving
// first-selected order.
func (ps Preferences) Proposals() []Proposal {
	out := make([]Proposal, len(ps))
	for i, p := range ps {
		out[i] = p.Proposal
	}
	return out
}
