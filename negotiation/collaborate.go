package negotiation

import (
	"context"
	"time"

	"github.com/BaSui01/macd/agent"
	"github.com/BaSui01/macd/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RoundEngine executes one Collaborate round per invocation: pop the next
// speaker from the rotation, obtain an improved proposal, fan declarations
// out to every other role, then accept the proposal or record a divergence.
type RoundEngine struct {
	set     *agent.Set
	logger  *zap.Logger
	metrics *Metrics
}

// NewRoundEngine creates a round engine over the given collaborators.
func NewRoundEngine(set *agent.Set, logger *zap.Logger) *RoundEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoundEngine{
		set:    set,
		logger: logger.With(zap.String("component", "collaborate")),
	}
}

// Run executes a single round and derives the next stage state. An exhausted
// rotation means there is no round to run: control moves to user feedback
// with the divergence log intact.
func (e *RoundEngine) Run(ctx context.Context, st *CollaborateState, prefs types.Preferences) (StageState, error) {
	if len(st.Queue) == 0 {
		e.logger.Info("rotation exhausted, deferring to user feedback",
			zap.Int("divergences", len(st.Divergences)))
		return &FeedbackState{Best: st.Best, Divergences: st.Divergences}, nil
	}

	started := time.Now()
	role := st.Queue[0]
	rest := append([]types.Role(nil), st.Queue[1:]...)

	speaker, others, err := e.set.Split(role)
	if err != nil {
		return nil, err
	}

	e.logger.Info("round started",
		zap.String("speaker", role.Name),
		zap.Int("queued", len(rest)),
		zap.Int("preferences", len(prefs)))

	improved, err := speaker.Propose(ctx, st.Best, prefs)
	if err != nil {
		return nil, err
	}

	objections, err := e.collectObjections(ctx, others, st.Best, improved, prefs)
	if err != nil {
		return nil, err
	}

	// Decliners commit every round: their memories record everything they
	// evaluated, whatever the outcome.
	for _, c := range others {
		if err := c.CommitOnDeclare(); err != nil {
			return nil, err
		}
	}

	if len(objections) > 0 {
		divergence, err := types.NewDivergence(improved, objections)
		if err != nil {
			return nil, err
		}
		e.logger.Info("proposal rejected",
			zap.String("speaker", role.Name),
			zap.Int("objections", len(objections)))
		e.metrics.observeRound("rejected", time.Since(started).Seconds())
		e.metrics.observeDivergence()

		// The speaker leaves the rotation until feedback resolves the
		// divergence.
		return &CollaborateState{
			Queue:       rest,
			Best:        st.Best,
			Divergences: append(st.Divergences, divergence),
		}, nil
	}

	// Unanimity: the proposal replaces the best, the speaker's propose
	// memory commits, and the speaker rejoins the back of the rotation.
	if err := speaker.CommitOnAcceptance(); err != nil {
		return nil, err
	}
	e.logger.Info("proposal accepted", zap.String("speaker", role.Name))
	e.metrics.observeRound("accepted", time.Since(started).Seconds())

	return &CollaborateState{
		Queue:       append(rest, role),
		Best:        &improved,
		Divergences: st.Divergences,
	}, nil
}

// collectObjections invokes Declare on every non-speaking role concurrently
// and joins before any outcome is decided.
func (e *RoundEngine) collectObjections(ctx context.Context, others []agent.Collaborator, original *types.Proposal, improved types.Proposal, prefs types.Preferences) ([]types.Objection, error) {
	reasons := make([]string, len(others))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range others {
		i, c := i, c
		g.Go(func() error {
			reason, err := c.Declare(ctx, original, improved, prefs)
			if err != nil {
				return err
			}
			reasons[i] = reason
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var objections []types.Objection
	for i, c := range others {
		if reasons[i] != "" {
			objections = append(objections, types.Objection{Role: c.Role(), Reason: reasons[i]})
		}
	}
	return objections, nil
}
