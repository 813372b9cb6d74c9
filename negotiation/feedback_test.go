package negotiation

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/BaSui01/macd/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptPrompter replays a fixed sequence of input lines and records
// everything shown to the user.
type scriptPrompter struct {
	lines []string
	said  []string
}

func (p *scriptPrompter) Say(text string) { p.said = append(p.said, text) }

func (p *scriptPrompter) Prompt(ctx context.Context, text string) (string, error) {
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptPrompter) saidContaining(substr string) bool {
	for _, s := range p.said {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func divergenceFixture(t *testing.T, author, text string) types.Divergence {
	t.Helper()
	d, err := types.NewDivergence(
		types.Proposal{Role: types.Role{Name: author}, Text: text},
		[]types.Objection{{Role: types.Role{Name: "other"}, Reason: "disagree"}},
	)
	require.NoError(t, err)
	return d
}

func TestFeedbackEngine_SelectThenContinue(t *testing.T) {
	t.Parallel()
	prompter := &scriptPrompter{lines: []string{"2", "closest to what I want", "c"}}
	engine := NewFeedbackEngine(prompter, zap.NewNop())

	best := &types.Proposal{Role: types.Role{Name: "A"}, Text: "standing"}
	st := &FeedbackState{
		Best: best,
		Divergences: []types.Divergence{
			divergenceFixture(t, "A", "first"),
			divergenceFixture(t, "B", "second"),
		},
	}

	next, prefs, err := engine.Run(context.Background(), st, nil)
	require.NoError(t, err)

	ds, ok := next.(*DebateState)
	require.True(t, ok)
	assert.Equal(t, best, ds.Best)

	require.Len(t, prefs, 1)
	assert.Equal(t, "second", prefs[0].Proposal.Text)
	assert.Equal(t, "closest to what I want", prefs[0].Reason)

	assert.True(t, prompter.saidContaining("standing"), "best proposal must be displayed")
	assert.True(t, prompter.saidContaining("Divergence 2"))
}

func TestFeedbackEngine_SelectThenQuit(t *testing.T) {
	t.Parallel()
	prompter := &scriptPrompter{lines: []string{"1", "", "q"}}
	engine := NewFeedbackEngine(prompter, zap.NewNop())

	prior := types.Preference{
		Proposal: types.Proposal{Role: types.Role{Name: "B"}, Text: "earlier pick"},
	}
	st := &FeedbackState{Divergences: []types.Divergence{divergenceFixture(t, "A", "fresh pick")}}

	next, prefs, err := engine.Run(context.Background(), st, types.Preferences{prior})
	require.NoError(t, err)

	es, ok := next.(*EndState)
	require.True(t, ok)
	require.Len(t, es.Proposals, 2, "quit returns every endorsement of the whole run")
	assert.Equal(t, "earlier pick", es.Proposals[0].Text)
	assert.Equal(t, "fresh pick", es.Proposals[1].Text)
	assert.Len(t, prefs, 2)
	assert.Empty(t, prefs[1].Reason)
}

func TestFeedbackEngine_ContinueWithoutSelection(t *testing.T) {
	t.Parallel()
	prompter := &scriptPrompter{lines: []string{"c"}}
	engine := NewFeedbackEngine(prompter, zap.NewNop())

	accumulated := types.Preferences{{
		Proposal: types.Proposal{Text: "kept"},
	}}
	next, prefs, err := engine.Run(context.Background(), &FeedbackState{}, accumulated)
	require.NoError(t, err)

	_, ok := next.(*DebateState)
	require.True(t, ok)
	assert.Equal(t, accumulated, prefs)
	assert.True(t, prompter.saidContaining("No proposal has been accepted yet"))
}

func TestFeedbackEngine_InvalidInputReprompts(t *testing.T) {
	t.Parallel()
	prompter := &scriptPrompter{lines: []string{"what?", "9", "0", "1", "fine", "c"}}
	engine := NewFeedbackEngine(prompter, zap.NewNop())

	st := &FeedbackState{Divergences: []types.Divergence{divergenceFixture(t, "A", "only option")}}
	_, prefs, err := engine.Run(context.Background(), st, nil)
	require.NoError(t, err)

	require.Len(t, prefs, 1)
	assert.Equal(t, "only option", prefs[0].Proposal.Text)
	assert.True(t, prompter.saidContaining("Unrecognized input"))
	assert.True(t, prompter.saidContaining("between 1 and 1"))
}

func TestFeedbackEngine_DuplicateSelectionReprompts(t *testing.T) {
	t.Parallel()
	prompter := &scriptPrompter{lines: []string{"1", "", "1", "q"}}
	engine := NewFeedbackEngine(prompter, zap.NewNop())

	st := &FeedbackState{Divergences: []types.Divergence{divergenceFixture(t, "A", "only option")}}
	next, prefs, err := engine.Run(context.Background(), st, nil)
	require.NoError(t, err)

	_, ok := next.(*EndState)
	require.True(t, ok)
	assert.Len(t, prefs, 1, "a divergence endorses at most once")
	assert.True(t, prompter.saidContaining("already endorsed"))
}

func TestFeedbackEngine_InputStreamFailure(t *testing.T) {
	t.Parallel()
	engine := NewFeedbackEngine(&scriptPrompter{}, zap.NewNop())

	_, _, err := engine.Run(context.Background(), &FeedbackState{}, nil)
	require.Error(t, err)
	assert.Equal(t, types.ErrPrecondition, types.GetErrorCode(err))

	var typed *types.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, string(StageUserFeedback), typed.Stage)
}
