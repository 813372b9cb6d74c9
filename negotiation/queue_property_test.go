package negotiation

import (
	"context"
	"fmt"
	"testing"

	"github.com/BaSui01/macd/agent"
	"github.com/BaSui01/macd/types"
	"go.uber.org/zap"
	"pgregory.net/rapid"
)

// rejectSwitch flips every declarer between unanimous acceptance and
// unanimous rejection for the current round.
type rejectSwitch struct {
	reject bool
}

type switchedCollaborator struct {
	fakeCollaborator
	ctrl *rejectSwitch
}

func (c *switchedCollaborator) Declare(ctx context.Context, original *types.Proposal, improved types.Proposal, prefs types.Preferences) (string, error) {
	if c.ctrl.reject {
		return "objection", nil
	}
	return "", nil
}

// Rotation laws, over arbitrary accept/reject sequences: the queue holds
// each role at most once and only known roles, an accepted speaker moves to
// the back, a rejected speaker leaves, and the divergence log grows by
// exactly one entry per rejection.
func TestRotationInvariants(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 6).Draw(t, "roles")
		accepts := rapid.SliceOfN(rapid.Bool(), 1, 24).Draw(t, "accepts")

		ctrl := &rejectSwitch{}
		collaborators := make([]agent.Collaborator, n)
		members := make(map[string]bool, n)
		for i := range collaborators {
			name := fmt.Sprintf("role-%d", i)
			collaborators[i] = &switchedCollaborator{
				fakeCollaborator: fakeCollaborator{role: types.Role{Topic: "t", Name: name}},
				ctrl:             ctrl,
			}
			members[name] = true
		}
		set := agent.NewSet(collaborators...)
		engine := NewRoundEngine(set, zap.NewNop())

		st := &CollaborateState{Queue: set.Roles()}
		for _, accept := range accepts {
			if len(st.Queue) == 0 {
				break
			}
			speaker := st.Queue[0]
			ctrl.reject = !accept

			next, err := engine.Run(context.Background(), st, nil)
			if err != nil {
				t.Fatalf("round failed: %v", err)
			}
			cs, ok := next.(*CollaborateState)
			if !ok {
				t.Fatalf("expected collaborate state, got %T", next)
			}

			seen := make(map[string]bool, len(cs.Queue))
			for _, r := range cs.Queue {
				if seen[r.Name] {
					t.Fatalf("role %s queued twice", r.Name)
				}
				if !members[r.Name] {
					t.Fatalf("unknown role %s in queue", r.Name)
				}
				seen[r.Name] = true
			}

			if accept {
				if len(cs.Queue) != len(st.Queue) {
					t.Fatalf("acceptance changed queue length: %d -> %d", len(st.Queue), len(cs.Queue))
				}
				if cs.Queue[len(cs.Queue)-1].Name != speaker.Name {
					t.Fatalf("accepted speaker %s must requeue at the back", speaker.Name)
				}
				if len(cs.Divergences) != len(st.Divergences) {
					t.Fatalf("acceptance must not record a divergence")
				}
				if cs.Best == nil || cs.Best.Role.Name != speaker.Name {
					t.Fatalf("accepted proposal must become the best")
				}
			} else {
				if len(cs.Queue) != len(st.Queue)-1 {
					t.Fatalf("rejection must shrink the queue by one")
				}
				if seen[speaker.Name] {
					t.Fatalf("rejected speaker %s must leave the rotation", speaker.Name)
				}
				if len(cs.Divergences) != len(st.Divergences)+1 {
					t.Fatalf("rejection must record exactly one divergence")
				}
			}
			st = cs
		}
	})
}
