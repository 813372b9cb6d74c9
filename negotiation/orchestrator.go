package negotiation

import (
	"context"
	"errors"

	"github.com/BaSui01/macd/agent"
	"github.com/BaSui01/macd/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxTransitions bounds a negotiation that the user never terminates.
const DefaultMaxTransitions = 150

// Config bounds a negotiation run.
type Config struct {
	// MaxTransitions caps the number of stage transitions before the run is
	// aborted. Zero means DefaultMaxTransitions.
	MaxTransitions int `json:"max_transitions" yaml:"max_transitions"`
}

// Orchestrator drives the stage machine from a fresh Collaborate stage to
// End, threading the accumulated user preferences between stages.
type Orchestrator struct {
	set      *agent.Set
	rounds   *RoundEngine
	feedback *FeedbackEngine
	debate   *DebateEngine
	cfg      Config
	logger   *zap.Logger
	metrics  *Metrics
}

// New assembles an orchestrator over the given collaborators and human
// boundary.
func New(set *agent.Set, prompter Prompter, cfg Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxTransitions <= 0 {
		cfg.MaxTransitions = DefaultMaxTransitions
	}
	return &Orchestrator{
		set:      set,
		rounds:   NewRoundEngine(set, logger),
		feedback: NewFeedbackEngine(prompter, logger),
		debate:   NewDebateEngine(logger),
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "orchestrator")),
	}
}

// SetMetrics attaches negotiation metrics (dependency injection).
func (o *Orchestrator) SetMetrics(m *Metrics) {
	o.metrics = m
	o.rounds.metrics = m
	o.feedback.metrics = m
}

// Run executes the negotiation until the user ends it and returns the
// endorsed proposals in first-selected order. Exhausting the transition cap
// returns the proposals endorsed so far alongside an ErrTransitionCap
// error, so a runaway negotiation still surfaces its partial outcome.
func (o *Orchestrator) Run(ctx context.Context) ([]types.Proposal, error) {
	logger := o.logger.With(zap.String("negotiation_id", uuid.New().String()))
	logger.Info("negotiation started",
		zap.Int("roles", len(o.set.Roles())),
		zap.Int("max_transitions", o.cfg.MaxTransitions))

	var prefs types.Preferences
	var current StageState = &CollaborateState{Queue: o.set.Roles()}

	for transitions := 0; transitions < o.cfg.MaxTransitions; transitions++ {
		o.metrics.observeTransition(current.Stage())

		var (
			next StageState
			err  error
		)
		switch st := current.(type) {
		case *CollaborateState:
			next, err = o.rounds.Run(ctx, st, prefs)
		case *FeedbackState:
			next, prefs, err = o.feedback.Run(ctx, st, prefs)
		case *DebateState:
			next, err = o.debate.Run(ctx, st, o.set.Roles())
		case *EndState:
			logger.Info("negotiation finished",
				zap.Int("transitions", transitions),
				zap.Int("proposals", len(st.Proposals)))
			return st.Proposals, nil
		default:
			return nil, types.NewError(types.ErrPrecondition, "unhandled stage state").
				WithStage(string(current.Stage()))
		}
		if err != nil {
			return nil, withStage(err, current.Stage())
		}
		current = next
	}

	logger.Warn("transition cap exhausted",
		zap.String("stage", string(current.Stage())),
		zap.Int("preferences", len(prefs)))
	return prefs.Proposals(), types.NewError(types.ErrTransitionCap, "transition cap exhausted").
		WithStage(string(current.Stage()))
}

// withStage stamps the failing stage onto a typed error that does not carry
// one yet.
func withStage(err error, stage Stage) error {
	var typed *types.Error
	if errors.As(err, &typed) && typed.Stage == "" {
		return typed.WithStage(string(stage))
	}
	return err
}
