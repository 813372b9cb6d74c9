package negotiation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/BaSui01/macd/types"
	"go.uber.org/zap"
)

// Prompter is the minimal human boundary for the feedback stage: a
// line-oriented conversation. Implementations decide where the lines come
// from (console, test script, remote UI).
type Prompter interface {
	// Say displays text to the user.
	Say(text string)

	// Prompt displays text and blocks for one line of input.
	Prompt(ctx context.Context, text string) (string, error)
}

// FeedbackEngine runs the human arbitration loop over the divergence log.
type FeedbackEngine struct {
	prompter Prompter
	logger   *zap.Logger
	metrics  *Metrics
}

// NewFeedbackEngine creates a feedback engine bound to the given prompter.
func NewFeedbackEngine(prompter Prompter, logger *zap.Logger) *FeedbackEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackEngine{
		prompter: prompter,
		logger:   logger.With(zap.String("component", "feedback")),
	}
}

// Run presents the current best proposal and every recorded divergence, then
// loops on user input. A number endorses that divergence's proposal, with an
// optional reason; "c" resumes negotiation with the endorsements merged into
// the accumulated preferences; "q" terminates with the proposals of every
// preference selected across the whole run, in first-selected order.
// Non-numeric, out-of-range and duplicate selections are re-prompted, never
// fatal. A failing input stream is.
func (e *FeedbackEngine) Run(ctx context.Context, st *FeedbackState, accumulated types.Preferences) (StageState, types.Preferences, error) {
	if st.Best == nil {
		e.prompter.Say("No proposal has been accepted yet.")
	} else {
		e.prompter.Say("Current proposal:\n\n" + st.Best.String())
	}
	for i, d := range st.Divergences {
		e.prompter.Say(fmt.Sprintf("\nDivergence %d:\n\n%s", i+1, d))
	}

	chosen := make(map[int]bool)
	var selected types.Preferences

	for {
		line, err := e.prompter.Prompt(ctx, "Select a divergence number to endorse, 'c' to continue, 'q' to quit: ")
		if err != nil {
			return nil, nil, types.NewError(types.ErrPrecondition, "feedback input unavailable").
				WithStage(string(StageUserFeedback)).WithCause(err)
		}

		switch line = strings.TrimSpace(line); line {
		case "c":
			merged := mergePreferences(accumulated, selected)
			e.logger.Info("negotiation resumed",
				zap.Int("endorsed", len(selected)),
				zap.Int("preferences", len(merged)))
			return &DebateState{Best: st.Best}, merged, nil
		case "q":
			merged := mergePreferences(accumulated, selected)
			e.logger.Info("negotiation terminated by user",
				zap.Int("preferences", len(merged)))
			return &EndState{Proposals: merged.Proposals()}, merged, nil
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			e.prompter.Say("Unrecognized input. Enter a divergence number, 'c' or 'q'.")
			continue
		}
		if n < 1 || n > len(st.Divergences) {
			e.prompter.Say(fmt.Sprintf("Out of range. Enter a number between 1 and %d.", len(st.Divergences)))
			continue
		}
		if chosen[n] {
			e.prompter.Say(fmt.Sprintf("Divergence %d is already endorsed. Choose another.", n))
			continue
		}

		reason, err := e.prompter.Prompt(ctx, "Why do you prefer it? (optional, empty to skip): ")
		if err != nil {
			return nil, nil, types.NewError(types.ErrPrecondition, "feedback input unavailable").
				WithStage(string(StageUserFeedback)).WithCause(err)
		}

		chosen[n] = true
		selected = append(selected, types.Preference{
			Proposal: st.Divergences[n-1].Proposal,
			Reason:   strings.TrimSpace(reason),
		})
		e.metrics.observePreference()
	}
}

func mergePreferences(accumulated, selected types.Preferences) types.Preferences {
	merged := make(types.Preferences, 0, len(accumulated)+len(selected))
	merged = append(merged, accumulated...)
	return append(merged, selected...)
}
