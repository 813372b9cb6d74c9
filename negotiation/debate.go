package negotiation

import (
	"context"

	"github.com/BaSui01/macd/types"
	"go.uber.org/zap"
)

// DebateEngine is the cross-role critique stage. The current protocol keeps
// it as a named pass-through: the state crosses unchanged and control
// returns to collaboration with the full rotation requeued. Keeping the
// stage explicit lets a real debate pass slot in without touching the
// orchestrator.
type DebateEngine struct {
	logger *zap.Logger
}

// NewDebateEngine creates a debate engine.
func NewDebateEngine(logger *zap.Logger) *DebateEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebateEngine{logger: logger.With(zap.String("component", "debate"))}
}

// Run passes the debate state through and requeues every role for the next
// collaboration phase. The divergence log starts empty: resolved entries do
// not carry over.
func (e *DebateEngine) Run(ctx context.Context, st *DebateState, roles []types.Role) (StageState, error) {
	e.logger.Debug("debate pass-through", zap.Int("roles", len(roles)))
	return &CollaborateState{
		Queue: append([]types.Role(nil), roles...),
		Best:  st.Best,
	}, nil
}
