// Package negotiation implements the multi-round negotiation protocol: the
// stage state machine, the per-round collaboration engine (speaker rotation,
// objection collection, divergence bookkeeping), and the human-feedback
// reconciliation loop that turns unresolved divergences into preference
// constraints for later rounds.
//
// The protocol is agnostic to how a role produces a proposal or an
// objection; it only depends on the agent.Collaborator boundary.
package negotiation
