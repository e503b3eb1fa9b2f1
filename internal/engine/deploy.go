package engine

import (
	"context"

	"github.com/prlabeler/internal/event"
	"github.com/prlabeler/pkg/models"
)

// handlePush reacts only to pushes on the configured staging and production
// branches. Every commit of the push is correlated back to its PR(s)
// independently; a commit that resolves to nothing simply contributes no
// effects.
func (e *Engine) handlePush(ctx context.Context, ev event.PushEvent) []Effect {
	switch ev.Branch {
	case e.opts.StagingBranch:
		e.log.Info().Str("branch", ev.Branch).Int("commits", len(ev.Commits)).Msg("handling staging deployment")
		return e.deployEffects(ctx, ev.Commits, false)
	case e.opts.ProductionBranch:
		e.log.Info().Str("branch", ev.Branch).Int("commits", len(ev.Commits)).Msg("handling production deployment")
		return e.deployEffects(ctx, ev.Commits, true)
	}

	e.log.Debug().Str("branch", ev.Branch).Msg("push to unmonitored branch, ignoring")
	return nil
}

func (e *Engine) deployEffects(ctx context.Context, commits []models.Commit, production bool) []Effect {
	var effects []Effect

	for _, commit := range commits {
		prs := e.correlator.Resolve(ctx, commit)
		if len(prs) == 0 {
			continue
		}

		for _, pr := range prs {
			e.log.Info().
				Int("pr", pr.Number).
				Str("sha", commit.SHA).
				Bool("production", production).
				Msg("marking pull request deployed")

			if production {
				effects = append(effects, transition(pr.Number, PhaseDeployedProduction)...)
				effects = append(effects, e.productionNotifications(pr)...)
			} else {
				effects = append(effects, transition(pr.Number, PhaseDeployedStaging)...)
			}
		}
	}

	return effects
}

func (e *Engine) productionNotifications(pr models.PullRequest) []Effect {
	author := Notification{
		PRNumber: pr.Number,
		Audience: AudienceAuthor,
		Template: "production",
	}
	effects := []Effect{comment(pr.Number, author.Body())}

	if e.opts.TeamID != "" {
		team := Notification{
			PRNumber: pr.Number,
			Audience: AudienceTeam,
			Template: "production",
			TeamID:   e.opts.TeamID,
		}
		effects = append(effects, comment(pr.Number, team.Body()))
	}
	return effects
}
