package negotiation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/BaSui01/macd/agent"
	"github.com/BaSui01/macd/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Fake collaborator
// ---------------------------------------------------------------------------

type fakeCollaborator struct {
	role       types.Role
	objection  string // "" accepts
	proposeErr error
	declareErr error

	proposeCalls   int
	declareCalls   int
	acceptCommits  int
	declareCommits int
	lastPrefs      types.Preferences
	lastOriginal   *types.Proposal
}

func (f *fakeCollaborator) Role() types.Role { return f.role }

func (f *fakeCollaborator) Propose(ctx context.Context, current *types.Proposal, prefs types.Preferences) (types.Proposal, error) {
	f.proposeCalls++
	f.lastPrefs = prefs
	f.lastOriginal = current
	if f.proposeErr != nil {
		return types.Proposal{}, f.proposeErr
	}
	return types.Proposal{Role: f.role, Text: fmt.Sprintf("%s plan %d", f.role.Name, f.proposeCalls)}, nil
}

func (f *fakeCollaborator) Declare(ctx context.Context, original *types.Proposal, improved types.Proposal, prefs types.Preferences) (string, error) {
	f.declareCalls++
	f.lastPrefs = prefs
	if f.declareErr != nil {
		return "", f.declareErr
	}
	return f.objection, nil
}

func (f *fakeCollaborator) CommitOnAcceptance() error {
	f.acceptCommits++
	return nil
}

func (f *fakeCollaborator) CommitOnDeclare() error {
	f.declareCommits++
	return nil
}

func fakeSet(fakes ...*fakeCollaborator) *agent.Set {
	collaborators := make([]agent.Collaborator, len(fakes))
	for i, f := range fakes {
		collaborators[i] = f
	}
	return agent.NewSet(collaborators...)
}

func namedFakes(names ...string) []*fakeCollaborator {
	fakes := make([]*fakeCollaborator, len(names))
	for i, name := range names {
		fakes[i] = &fakeCollaborator{role: types.Role{Topic: "t", Name: name}}
	}
	return fakes
}

func queueNames(st *CollaborateState) []string {
	names := make([]string, len(st.Queue))
	for i, r := range st.Queue {
		names[i] = r.Name
	}
	return names
}

// ---------------------------------------------------------------------------
// RoundEngine
// ---------------------------------------------------------------------------

func TestRoundEngine_Acceptance(t *testing.T) {
	t.Parallel()
	fakes := namedFakes("A", "B", "C")
	set := fakeSet(fakes...)
	engine := NewRoundEngine(set, zap.NewNop())

	next, err := engine.Run(context.Background(), &CollaborateState{Queue: set.Roles()}, nil)
	require.NoError(t, err)

	cs, ok := next.(*CollaborateState)
	require.True(t, ok)
	assert.Equal(t, []string{"B", "C", "A"}, queueNames(cs))
	require.NotNil(t, cs.Best)
	assert.Equal(t, "A", cs.Best.Role.Name)
	assert.Empty(t, cs.Divergences)

	// The speaker commits its propose memory, the decliners their declare
	// memories.
	assert.Equal(t, 1, fakes[0].acceptCommits)
	assert.Zero(t, fakes[0].declareCommits)
	for _, f := range fakes[1:] {
		assert.Zero(t, f.acceptCommits)
		assert.Equal(t, 1, f.declareCommits)
		assert.Equal(t, 1, f.declareCalls)
	}
}

func TestRoundEngine_Rejection(t *testing.T) {
	t.Parallel()
	fakes := namedFakes("A", "B", "C")
	fakes[1].objection = "too narrow"
	set := fakeSet(fakes...)
	engine := NewRoundEngine(set, zap.NewNop())

	next, err := engine.Run(context.Background(), &CollaborateState{Queue: set.Roles()}, nil)
	require.NoError(t, err)

	cs, ok := next.(*CollaborateState)
	require.True(t, ok)
	assert.Equal(t, []string{"B", "C"}, queueNames(cs), "rejected speaker leaves the rotation")
	assert.Nil(t, cs.Best, "rejected proposal must not become the best")

	require.Len(t, cs.Divergences, 1)
	d := cs.Divergences[0]
	assert.Equal(t, "A", d.Proposal.Role.Name)
	require.Len(t, d.Objections, 1)
	assert.Equal(t, "B", d.Objections[0].Role.Name)
	assert.Equal(t, "too narrow", d.Objections[0].Reason)

	// Decliners commit even on rejection; the speaker does not.
	assert.Zero(t, fakes[0].acceptCommits)
	assert.Equal(t, 1, fakes[1].declareCommits)
	assert.Equal(t, 1, fakes[2].declareCommits)
}

func TestRoundEngine_EmptyQueue(t *testing.T) {
	t.Parallel()
	set := fakeSet(namedFakes("A", "B")...)
	engine := NewRoundEngine(set, zap.NewNop())

	best := &types.Proposal{Role: types.Role{Name: "A"}, Text: "standing plan"}
	divergence, err := types.NewDivergence(
		types.Proposal{Role: types.Role{Name: "B"}, Text: "rejected"},
		[]types.Objection{{Role: types.Role{Name: "A"}, Reason: "no"}},
	)
	require.NoError(t, err)

	next, err := engine.Run(context.Background(), &CollaborateState{
		Best:        best,
		Divergences: []types.Divergence{divergence},
	}, nil)
	require.NoError(t, err)

	fs, ok := next.(*FeedbackState)
	require.True(t, ok)
	assert.Equal(t, best, fs.Best)
	assert.Len(t, fs.Divergences, 1)
}

func TestRoundEngine_UnknownSpeaker(t *testing.T) {
	t.Parallel()
	set := fakeSet(namedFakes("A")...)
	engine := NewRoundEngine(set, zap.NewNop())

	_, err := engine.Run(context.Background(), &CollaborateState{
		Queue: []types.Role{{Name: "Z"}},
	}, nil)
	require.Error(t, err)
	assert.Equal(t, types.ErrUnknownRole, types.GetErrorCode(err))
}

func TestRoundEngine_ProposeError(t *testing.T) {
	t.Parallel()
	fakes := namedFakes("A", "B")
	fakes[0].proposeErr = errors.New("model down")
	set := fakeSet(fakes...)
	engine := NewRoundEngine(set, zap.NewNop())

	_, err := engine.Run(context.Background(), &CollaborateState{Queue: set.Roles()}, nil)
	require.Error(t, err)
	assert.Zero(t, fakes[1].declareCalls, "declarations must not run without a proposal")
}

func TestRoundEngine_DeclareError(t *testing.T) {
	t.Parallel()
	fakes := namedFakes("A", "B", "C")
	fakes[2].declareErr = errors.New("model down")
	set := fakeSet(fakes...)
	engine := NewRoundEngine(set, zap.NewNop())

	_, err := engine.Run(context.Background(), &CollaborateState{Queue: set.Roles()}, nil)
	require.Error(t, err)
	assert.Zero(t, fakes[1].declareCommits, "no declare commits after a failed fan-out")
}

func TestRoundEngine_PreferencesReachEveryRole(t *testing.T) {
	t.Parallel()
	fakes := namedFakes("A", "B", "C")
	set := fakeSet(fakes...)
	engine := NewRoundEngine(set, zap.NewNop())

	prefs := types.Preferences{{
		Proposal: types.Proposal{Role: types.Role{Name: "B"}, Text: "endorsed"},
		Reason:   "user liked it",
	}}
	_, err := engine.Run(context.Background(), &CollaborateState{Queue: set.Roles()}, prefs)
	require.NoError(t, err)

	for _, f := range fakes {
		assert.Equal(t, prefs, f.lastPrefs)
	}
}

func TestRoundEngine_QueueDrainsToFeedback(t *testing.T) {
	t.Parallel()
	fakes := namedFakes("A", "B", "C")
	for _, f := range fakes {
		f.objection = "never good enough"
	}
	set := fakeSet(fakes...)
	engine := NewRoundEngine(set, zap.NewNop())

	var current StageState = &CollaborateState{Queue: set.Roles()}
	rounds := 0
	for {
		cs, ok := current.(*CollaborateState)
		if !ok {
			break
		}
		next, err := engine.Run(context.Background(), cs, nil)
		require.NoError(t, err)
		current = next
		rounds++
		require.LessOrEqual(t, rounds, 4, "rotation must drain")
	}

	fs, ok := current.(*FeedbackState)
	require.True(t, ok)
	assert.Nil(t, fs.Best)
	assert.Len(t, fs.Divergences, 3, "one divergence per rejected speaker")
	require.Len(t, fs.Divergences[0].Objections, 2)
}
