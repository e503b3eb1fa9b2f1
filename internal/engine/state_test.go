package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prlabeler/internal/labels"
)

func TestProjectionFor_TotalOverPhases(t *testing.T) {
	phases := []Phase{
		PhaseDraft, PhaseAwaitingReview, PhaseChangesRequested, PhaseInReview,
		PhaseApproved, PhaseDeployedStaging, PhaseDeployedProduction,
		PhaseMerged, PhaseAbandoned, PhaseConflicted,
	}

	for _, p := range phases {
		proj := ProjectionFor(p)
		assert.NotEmpty(t, proj.Present, "phase %d must pin at least one label", p)

		// A phase can never require a label to be both present and absent.
		for _, l := range proj.Present {
			assert.False(t, containsLabel(proj.Absent, l), "phase %d contradicts itself on %s", p, l)
		}
	}

	assert.Empty(t, ProjectionFor(Phase(99)).Present)
}

func TestProjection_ExclusivePairs(t *testing.T) {
	// Draft and Ready for review are mutually exclusive in every phase that
	// pins either one.
	draft := ProjectionFor(PhaseDraft)
	assert.True(t, containsLabel(draft.Present, labels.Draft))
	assert.True(t, containsLabel(draft.Absent, labels.ReadyForReview))

	awaiting := ProjectionFor(PhaseAwaitingReview)
	assert.True(t, containsLabel(awaiting.Present, labels.ReadyForReview))
	assert.True(t, containsLabel(awaiting.Absent, labels.Draft))
}

func TestConsistentWith(t *testing.T) {
	ok := []Effect{
		removeLabel(1, labels.ReadyForReview),
		addLabel(1, labels.RequestChanges),
		comment(1, "please fix"), // non-label effects are ignored
	}
	assert.True(t, ConsistentWith(ok, PhaseChangesRequested))

	badAdd := []Effect{addLabel(1, labels.Approved)}
	assert.False(t, ConsistentWith(badAdd, PhaseChangesRequested))

	badRemove := []Effect{removeLabel(1, labels.RequestChanges)}
	assert.False(t, ConsistentWith(badRemove, PhaseChangesRequested))
}

func TestTransitionMatchesProjection(t *testing.T) {
	effects := transition(5, PhaseChangesRequested)

	proj := ProjectionFor(PhaseChangesRequested)
	assert.Len(t, effects, len(proj.Present)+len(proj.Absent))
	assert.True(t, ConsistentWith(effects, PhaseChangesRequested))
}

func TestTransitionKeepSuppressesRemoval(t *testing.T) {
	effects := transition(5, PhaseApproved, labels.Draft)

	for _, ef := range effects {
		if ef.Kind == EffectRemoveLabel {
			assert.NotEqual(t, labels.Draft, ef.Label)
		}
	}
	assert.True(t, ConsistentWith(effects, PhaseApproved))
}
