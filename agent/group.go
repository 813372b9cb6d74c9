package agent

import (
	"context"
	"time"

	"github.com/BaSui01/macd/agent/persistence"
	"github.com/BaSui01/macd/llm"
	"github.com/BaSui01/macd/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupConfig configures the LLM calls made by a Group.
type GroupConfig struct {
	Model       string        `json:"model"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Timeout     time.Duration `json:"timeout"`
}

// DefaultGroupConfig returns the default group configuration.
func DefaultGroupConfig() GroupConfig {
	return GroupConfig{
		Temperature: 0.7,
		MaxTokens:   2048,
		Timeout:     2 * time.Minute,
	}
}

// Group is the LLM-backed Collaborator for one role. It holds two sub-agents
// sharing the role's system identity but keeping separate memories: one for
// proposing, one for declaring. Memories are private to the group; no other
// role can read or write them.
type Group struct {
	role     types.Role
	provider llm.Provider
	cfg      GroupConfig
	logger   *zap.Logger

	proposeMem *Memory
	declareMem *Memory

	// Optional durable transcript. Best effort: persistence failures are
	// logged, not propagated, so a flaky store cannot fail a round.
	store         persistence.TranscriptStore
	negotiationID string
}

// NewGroup creates a Group for the given role.
func NewGroup(role types.Role, provider llm.Provider, cfg GroupConfig, logger *zap.Logger) *Group {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Group{
		role:       role,
		provider:   provider,
		cfg:        cfg,
		logger:     logger.With(zap.String("component", "agent_group"), zap.String("role", role.Name)),
		proposeMem: NewMemory(),
		declareMem: NewMemory(),
	}
}

// SetTranscriptStore attaches a durable transcript store (dependency
// injection). Committed exchanges are appended under the given negotiation
// ID.
func (g *Group) SetTranscriptStore(store persistence.TranscriptStore, negotiationID string) {
	g.store = store
	g.negotiationID = negotiationID
}

// Role returns the role this group speaks for.
func (g *Group) Role() types.Role { return g.role }

func (g *Group) completion(ctx context.Context, msgs []llm.Message) (string, error) {
	req := &llm.ChatRequest{
		TraceID:     uuid.New().String(),
		Model:       g.cfg.Model,
		Messages:    msgs,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Timeout:     g.cfg.Timeout,
	}
	resp, err := g.provider.Completion(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content(), nil
}

// Propose produces an improved proposal from this role's perspective.
func (g *Group) Propose(ctx context.Context, current *types.Proposal, prefs types.Preferences) (types.Proposal, error) {
	msgs, invocation := proposeMessages(g.role, g.proposeMem, current, prefs)

	content, err := g.completion(ctx, msgs)
	if err != nil {
		return types.Proposal{}, types.NewError(types.ErrAgentFailure, "propose failed").
			WithRole(g.role.Name).WithCause(err)
	}

	parsed, err := ParseProposeResponse(content)
	if err != nil {
		return types.Proposal{}, err
	}

	g.proposeMem.Stage(invocation, llm.Message{Role: llm.RoleAssistant, Content: content})
	g.logger.Debug("proposal raised", zap.Int("memory_len", g.proposeMem.Len()))

	return types.Proposal{Role: g.role, Text: parsed.Proposal}, nil
}

// Declare evaluates an improved proposal and returns this role's objection
// reason, or "" to accept.
func (g *Group) Declare(ctx context.Context, original *types.Proposal, improved types.Proposal, prefs types.Preferences) (string, error) {
	msgs, invocation := declareMessages(g.role, g.declareMem, original, improved, prefs)

	content, err := g.completion(ctx, msgs)
	if err != nil {
		return "", types.NewError(types.ErrAgentFailure, "declare failed").
			WithRole(g.role.Name).WithCause(err)
	}

	parsed, err := ParseDeclareResponse(content)
	if err != nil {
		return "", err
	}

	g.declareMem.Stage(invocation, llm.Message{Role: llm.RoleAssistant, Content: content})

	if parsed.Objection == nil {
		return "", nil
	}
	return *parsed.Objection, nil
}

// CommitOnAcceptance commits the staged propose exchange.
func (g *Group) CommitOnAcceptance() error {
	committed, err := g.proposeMem.Commit()
	if err != nil {
		return err
	}
	g.persist(persistence.KindPropose, committed)
	return nil
}

// CommitOnDeclare commits the staged declare exchange.
func (g *Group) CommitOnDeclare() error {
	committed, err := g.declareMem.Commit()
	if err != nil {
		return err
	}
	g.persist(persistence.KindDeclare, committed)
	return nil
}

func (g *Group) persist(kind persistence.ExchangeKind, committed []llm.Message) {
	if g.store == nil || len(committed) != 2 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := g.store.Append(ctx, &persistence.Exchange{
		NegotiationID: g.negotiationID,
		Role:          g.role.Name,
		Kind:          kind,
		Input:         committed[0].Content,
		Response:      committed[1].Content,
	})
	if err != nil {
		g.logger.Warn("failed to persist exchange",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

// NewSetFromRoles builds a collaborator Set with one LLM-backed Group per
// role, in the given order.
func NewSetFromRoles(roles []types.Role, provider llm.Provider, cfg GroupConfig, logger *zap.Logger) *Set {
	collaborators := make([]Collaborator, 0, len(roles))
	for _, role := range roles {
		collaborators = append(collaborators, NewGroup(role, provider, cfg, logger))
	}
	return NewSet(collaborators...)
}
