package engine

import (
	"context"
	"time"

	"github.com/prlabeler/internal/labels"
	"github.com/prlabeler/internal/platform"
)

// handleSchedule runs the periodic reconciliations: abandonment marking and,
// when enabled, the merge-conflict check.
func (e *Engine) handleSchedule(ctx context.Context) []Effect {
	e.log.Info().Msg("running scheduled checks")

	effects := e.abandonedEffects(ctx)
	if e.opts.CheckConflicts {
		effects = append(effects, e.conflictEffects(ctx)...)
	}
	return effects
}

func (e *Engine) abandonedEffects(ctx context.Context) []Effect {
	prs, err := e.lookup.ListPullRequests(ctx, platform.PRFilter{State: "open"})
	if err != nil {
		e.log.Warn().Err(err).Msg("could not list open pull requests for abandonment check")
		return nil
	}

	cutoff := e.now().Add(-time.Duration(e.opts.AbandonedDays) * 24 * time.Hour)

	var effects []Effect
	for _, pr := range prs {
		if !pr.UpdatedAt.Before(cutoff) {
			continue
		}

		e.log.Info().Int("pr", pr.Number).Time("updated_at", pr.UpdatedAt).Msg("marking pull request abandoned")

		n := Notification{
			PRNumber: pr.Number,
			Audience: AudienceAuthor,
			Template: "abandoned",
			Days:     e.opts.AbandonedDays,
		}
		effects = append(effects,
			addLabel(pr.Number, labels.Abandoned),
			comment(pr.Number, n.Body()))
	}
	return effects
}

// conflictEffects is a continuous reconciliation, not a one-shot transition:
// each open PR's mergeability is re-fetched and the label is converged to it.
// The platform reports nil while it is still recomputing; in that case the
// label is left untouched rather than flapped.
func (e *Engine) conflictEffects(ctx context.Context) []Effect {
	prs, err := e.lookup.ListPullRequests(ctx, platform.PRFilter{State: "open"})
	if err != nil {
		e.log.Warn().Err(err).Msg("could not list open pull requests for conflict check")
		return nil
	}

	var effects []Effect
	for _, pr := range prs {
		// List results never carry mergeability; fetch each PR fresh.
		full, err := e.lookup.GetPullRequest(ctx, pr.Number)
		if err != nil {
			e.log.Warn().Err(err).Int("pr", pr.Number).Msg("could not fetch pull request, skipping conflict check")
			continue
		}

		switch {
		case full.Mergeable == nil:
			e.log.Debug().Int("pr", pr.Number).Msg("mergeability still computing, leaving label as is")
		case *full.Mergeable:
			effects = append(effects, removeLabel(pr.Number, labels.MergeConflict))
		default:
			effects = append(effects, addLabel(pr.Number, labels.MergeConflict))
		}
	}
	return effects
}
