// Package macd provides a top-level convenience entry point for running a
// multi-agent negotiation with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/macd"
//
//	proposals, err := macd.Negotiate(ctx, "How should the assistant answer?",
//	    macd.WithProvider(myProvider),
//	)
//
// Every part is swappable: the role preset, the human prompter, the LLM
// provider, the transcript store and the metrics sink.
package macd

import (
	"context"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/macd/agent"
	"github.com/BaSui01/macd/agent/persistence"
	"github.com/BaSui01/macd/llm"
	"github.com/BaSui01/macd/negotiation"
	"github.com/BaSui01/macd/preset"
	"github.com/BaSui01/macd/types"
)

type options struct {
	provider       llm.Provider
	roles          []types.Role
	preset         preset.Preset
	prompter       negotiation.Prompter
	logger         *zap.Logger
	group          agent.GroupConfig
	maxTransitions int
	store          persistence.TranscriptStore
	metrics        *negotiation.Metrics
}

// Option configures the negotiation assembled by [Negotiate].
type Option func(*options)

// WithProvider sets the LLM provider backing every role. Required.
func WithProvider(p llm.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithPreset sets the role preset. Defaults to [preset.HHH].
func WithPreset(p preset.Preset) Option {
	return func(o *options) { o.preset = p }
}

// WithRoles sets the negotiating roles directly in caller-supplied order,
// bypassing the preset. The topic argument to [Negotiate] is ignored for
// roles that already carry one.
func WithRoles(roles ...types.Role) Option {
	return func(o *options) { o.roles = roles }
}

// WithPrompter sets the human boundary for the feedback stage. Defaults to a
// console prompter on stdin/stdout.
func WithPrompter(p negotiation.Prompter) Option {
	return func(o *options) { o.prompter = p }
}

// WithLogger sets a custom zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithGroupConfig sets the per-role LLM call configuration.
func WithGroupConfig(cfg agent.GroupConfig) Option {
	return func(o *options) { o.group = cfg }
}

// WithMaxTransitions caps the number of stage transitions.
func WithMaxTransitions(n int) Option {
	return func(o *options) { o.maxTransitions = n }
}

// WithTranscriptStore persists every committed exchange to the given store.
func WithTranscriptStore(s persistence.TranscriptStore) Option {
	return func(o *options) { o.store = s }
}

// WithMetrics attaches negotiation metrics.
func WithMetrics(m *negotiation.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Negotiate runs a full negotiation over the topic and returns the
// user-endorsed proposals in first-selected order.
func Negotiate(ctx context.Context, topic string, opts ...Option) ([]types.Proposal, error) {
	o := options{
		preset: preset.HHH(),
		group:  agent.DefaultGroupConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.provider == nil {
		return nil, types.NewError(types.ErrPrecondition, "an LLM provider is required")
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.prompter == nil {
		o.prompter = negotiation.NewConsolePrompter(os.Stdin, os.Stdout)
	}

	roles := o.roles
	if len(roles) == 0 {
		bound, err := o.preset.Bind(topic)
		if err != nil {
			return nil, err
		}
		roles = bound
	} else if len(roles) < 2 {
		return nil, types.NewError(types.ErrInputInvalid, "a negotiation needs at least two roles")
	}

	negotiationID := uuid.New().String()
	collaborators := make([]agent.Collaborator, 0, len(roles))
	for _, role := range roles {
		g := agent.NewGroup(role, o.provider, o.group, o.logger)
		if o.store != nil {
			g.SetTranscriptStore(o.store, negotiationID)
		}
		collaborators = append(collaborators, g)
	}

	orch := negotiation.New(
		agent.NewSet(collaborators...),
		o.prompter,
		negotiation.Config{MaxTransitions: o.maxTransitions},
		o.logger,
	)
	if o.metrics != nil {
		orch.SetMetrics(o.metrics)
	}
	return orch.Run(ctx)
}
