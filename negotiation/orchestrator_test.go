package negotiation

import (
	"context"
	"testing"

	"github.com/BaSui01/macd/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrchestrator_FullRun(t *testing.T) {
	t.Parallel()

	// Both roles object to everything, so each collaboration phase produces
	// one divergence per role and then drains into feedback.
	fakes := namedFakes("A", "B")
	for _, f := range fakes {
		f.objection = "not from my angle"
	}
	set := fakeSet(fakes...)

	// First feedback: endorse divergence 1 and continue. Second: endorse
	// divergence 2 and quit.
	prompter := &scriptPrompter{lines: []string{"1", "keeps it simple", "c", "2", "", "q"}}

	o := New(set, prompter, Config{}, zap.NewNop())
	proposals, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, proposals, 2)
	assert.Equal(t, "A plan 1", proposals[0].Text)
	assert.Equal(t, "B plan 2", proposals[1].Text)

	// The preference endorsed in the first feedback reaches the second
	// collaboration phase.
	require.Len(t, fakes[0].lastPrefs, 1)
	assert.Equal(t, "A plan 1", fakes[0].lastPrefs[0].Proposal.Text)
	assert.Equal(t, "keeps it simple", fakes[0].lastPrefs[0].Reason)
}

func TestOrchestrator_QuitWithoutEndorsement(t *testing.T) {
	t.Parallel()
	fakes := namedFakes("A", "B")
	for _, f := range fakes {
		f.objection = "no"
	}
	o := New(fakeSet(fakes...), &scriptPrompter{lines: []string{"q"}}, Config{}, zap.NewNop())

	proposals, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, proposals)
}

func TestOrchestrator_TransitionCap(t *testing.T) {
	t.Parallel()

	// Unanimous acceptance forever: the rotation never drains, so the run
	// must hit the cap instead of spinning.
	fakes := namedFakes("A", "B")
	o := New(fakeSet(fakes...), &scriptPrompter{}, Config{MaxTransitions: 6}, zap.NewNop())

	proposals, err := o.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, types.ErrTransitionCap, types.GetErrorCode(err))
	assert.Empty(t, proposals, "nothing was endorsed before the cap")
}

func TestOrchestrator_RoundErrorCarriesStage(t *testing.T) {
	t.Parallel()
	fakes := namedFakes("A", "B")
	fakes[0].proposeErr = assert.AnError
	o := New(fakeSet(fakes...), &scriptPrompter{}, Config{}, zap.NewNop())

	_, err := o.Run(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, assert.AnError)
}

func TestOrchestrator_Metrics(t *testing.T) {
	t.Parallel()
	fakes := namedFakes("A", "B")
	for _, f := range fakes {
		f.objection = "no"
	}
	prompter := &scriptPrompter{lines: []string{"1", "", "q"}}

	o := New(fakeSet(fakes...), prompter, Config{}, zap.NewNop())
	metrics := NewMetrics(prometheus.NewRegistry())
	o.SetMetrics(metrics)

	_, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.divergencesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.preferencesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.roundsTotal.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.transitionsTotal.WithLabelValues(string(StageUserFeedback))))
}
