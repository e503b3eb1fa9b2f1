package engine

import (
	"github.com/prlabeler/internal/labels"
)

// Phase is the engine's explicit view of the implicit per-PR lifecycle the
// label set encodes. Handlers emit minimal label deltas; the projection below
// is the total mapping from phase to the labels that must be present and the
// labels that must be absent once those deltas apply, so tests can check a
// handler's output against its target phase without a live platform.
type Phase int

const (
	PhaseDraft Phase = iota
	PhaseAwaitingReview
	PhaseChangesRequested
	PhaseInReview
	PhaseApproved
	PhaseDeployedStaging
	PhaseDeployedProduction
	PhaseMerged
	PhaseAbandoned
	PhaseConflicted
)

// Projection is the label footprint of a phase.
type Projection struct {
	Present []labels.Label
	Absent  []labels.Label
}

// ProjectionFor is total over Phase; unknown values project to nothing.
func ProjectionFor(p Phase) Projection {
	switch p {
	case PhaseDraft:
		return Projection{
			Present: []labels.Label{labels.Draft},
			Absent:  []labels.Label{labels.ReadyForReview},
		}
	case PhaseAwaitingReview:
		return Projection{
			Present: []labels.Label{labels.ReadyForReview},
			Absent: []labels.Label{
				labels.Draft, labels.RequestChanges, labels.Approved,
				labels.ReadyForStaging, labels.DeployedStaging, labels.DeployedProduction,
			},
		}
	case PhaseChangesRequested:
		return Projection{
			Present: []labels.Label{labels.RequestChanges},
			Absent: []labels.Label{
				labels.ReadyForReview, labels.InProgress,
				labels.Approved, labels.ReadyForStaging,
			},
		}
	case PhaseInReview:
		return Projection{
			Present: []labels.Label{labels.InProgress},
		}
	case PhaseApproved:
		return Projection{
			Present: []labels.Label{labels.Approved, labels.ReadyForStaging},
			Absent: []labels.Label{
				labels.ReadyForReview, labels.RequestChanges,
				labels.InProgress, labels.Draft,
			},
		}
	case PhaseDeployedStaging:
		return Projection{
			Present: []labels.Label{labels.DeployedStaging},
			Absent:  []labels.Label{labels.ReadyForStaging},
		}
	case PhaseDeployedProduction:
		return Projection{
			Present: []labels.Label{labels.DeployedProduction},
			Absent:  []labels.Label{labels.ReadyForStaging, labels.DeployedStaging},
		}
	case PhaseMerged:
		return Projection{
			Present: []labels.Label{labels.Merged},
		}
	case PhaseAbandoned:
		return Projection{
			Present: []labels.Label{labels.Abandoned},
		}
	case PhaseConflicted:
		return Projection{
			Present: []labels.Label{labels.MergeConflict},
		}
	}
	return Projection{}
}

// ConsistentWith reports whether a batch of label effects is compatible with
// a phase's projection: every add targets a must-present label and every
// remove targets a must-absent label. Non-label effects are ignored.
func ConsistentWith(effects []Effect, p Phase) bool {
	proj := ProjectionFor(p)
	for _, ef := range effects {
		switch ef.Kind {
		case EffectAddLabel:
			if !containsLabel(proj.Present, ef.Label) {
				return false
			}
		case EffectRemoveLabel:
			if !containsLabel(proj.Absent, ef.Label) {
				return false
			}
		}
	}
	return true
}

func containsLabel(set []labels.Label, l labels.Label) bool {
	for _, candidate := range set {
		if candidate == l {
			return true
		}
	}
	return false
}
