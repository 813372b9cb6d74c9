package agent

import (
	"context"

	"github.com/BaSui01/macd/types"
)

// Collaborator is the capability boundary for a single role. The negotiation
// core calls it but does not implement it; implementations may be slow and
// may be invoked concurrently across roles (never concurrently for the same
// role within one round).
type Collaborator interface {
	// Role returns the role this collaborator speaks for.
	Role() types.Role

	// Propose produces an improved proposal from this role's perspective,
	// given the current best proposal (nil before any round has been
	// accepted) and the user preferences accumulated so far.
	// A failure is non-retryable from the core's point of view.
	Propose(ctx context.Context, current *types.Proposal, prefs types.Preferences) (types.Proposal, error)

	// Declare evaluates an improved proposal against the original and
	// returns this role's objection reason, or "" to accept.
	Declare(ctx context.Context, original *types.Proposal, improved types.Proposal, prefs types.Preferences) (string, error)

	// CommitOnAcceptance durably appends the most recent propose exchange to
	// this role's private history. Invoked only when the round accepted the
	// proposal: the speaker's memory records actions that stood.
	CommitOnAcceptance() error

	// CommitOnDeclare durably appends the most recent declare exchange to
	// this role's private history. Invoked on every round regardless of
	// outcome: a decliner's memory records everything it evaluated.
	CommitOnDeclare() error
}

// Set is the registry of collaborators for one negotiation, keyed by role
// name.
type Set struct {
	order   []string
	mapping map[string]Collaborator
}

// NewSet builds a Set from the given collaborators, preserving order.
func NewSet(collaborators ...Collaborator) *Set {
	s := &Set{mapping: make(map[string]Collaborator, len(collaborators))}
	for _, c := range collaborators {
		name := c.Role().Name
		if _, ok := s.mapping[name]; ok {
			continue
		}
		s.order = append(s.order, name)
		s.mapping[name] = c
	}
	return s
}

// Get returns the collaborator for the given role name.
func (s *Set) Get(name string) (Collaborator, bool) {
	c, ok := s.mapping[name]
	return c, ok
}

// Roles returns every registered role in registration order.
func (s *Set) Roles() []types.Role {
	roles := make([]types.Role, 0, len(s.order))
	for _, name := range s.order {
		roles = append(roles, s.mapping[name].Role())
	}
	return roles
}

// Split returns the collaborator for the given role and all the others in
// registration order. Referencing an unknown role name is a precondition
// violation.
func (s *Set) Split(role types.Role) (Collaborator, []Collaborator, error) {
	speaker, ok := s.mapping[role.Name]
	if !ok {
		return nil, nil, types.NewError(types.ErrUnknownRole, "role not found").WithRole(role.Name)
	}
	others := make([]Collaborator, 0, len(s.order)-1)
	for _, name := range s.order {
		if name != role.Name {
			others = append(others, s.mapping[name])
		}
	}
	return speaker, others, nil
}
