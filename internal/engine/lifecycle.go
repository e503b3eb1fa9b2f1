package engine

import (
	"context"
	"strings"

	"github.com/prlabeler/internal/event"
	"github.com/prlabeler/internal/labels"
	"github.com/prlabeler/internal/platform"
	"github.com/prlabeler/pkg/models"
)

const dismissalMessage = "Dismissed due to new commits - re-review required"

func (e *Engine) handlePullRequest(ctx context.Context, ev event.PullRequestEvent) []Effect {
	e.log.Info().Str("action", ev.Action).Int("pr", ev.PR.Number).Msg("processing pull request event")

	switch ev.Action {
	case "opened":
		return e.handleOpened(ctx, ev.PR)
	case "synchronize":
		return e.handleSynchronize(ctx, ev.PR)
	case "closed":
		return e.handleClosed(ev.PR)
	case "converted_to_draft":
		return e.handleConvertedToDraft(ev.PR)
	case "ready_for_review":
		return e.handleReadyForReview(ctx, ev.PR)
	case "edited":
		return e.handleEdited(ctx, ev)
	}

	e.log.Info().Str("action", ev.Action).Msg("pull request action not supported")
	return nil
}

// handleOpened runs the one-shot classification: review-status label by draft
// flag, then feature, branch, and content labels. These are applied once at
// open time only.
func (e *Engine) handleOpened(ctx context.Context, pr models.PullRequest) []Effect {
	var effects []Effect

	if pr.Draft {
		effects = append(effects, addLabel(pr.Number, labels.Draft))
	} else {
		effects = append(effects, addLabel(pr.Number, labels.ReadyForReview))
	}

	effects = append(effects, e.featureLabels(ctx, pr)...)
	effects = append(effects, branchLabels(pr)...)

	for _, l := range Classify(pr.Title, pr.Body) {
		effects = append(effects, addLabel(pr.Number, l))
	}

	return effects
}

// featureLabels marks feature-base PRs and the parts stacked on top of them.
// A PR targeting the head branch of an open feature-base PR is a part.
func (e *Engine) featureLabels(ctx context.Context, pr models.PullRequest) []Effect {
	var effects []Effect

	if strings.Contains(strings.ToLower(pr.Title), "base") {
		effects = append(effects, addLabel(pr.Number, labels.FeatureBase))
	}

	targets, err := e.lookup.ListPullRequests(ctx, platform.PRFilter{
		State:      "open",
		HeadBranch: pr.BaseBranch,
	})
	if err != nil {
		e.log.Warn().Err(err).Str("branch", pr.BaseBranch).Msg("could not look up target branch pull request")
		return effects
	}
	if len(targets) > 0 && strings.Contains(strings.ToLower(targets[0].Title), "base") {
		effects = append(effects, addLabel(pr.Number, labels.FeaturePart))
	}

	return effects
}

// branchLabels derives labels from head branch naming conventions.
func branchLabels(pr models.PullRequest) []Effect {
	branch := strings.ToLower(pr.HeadBranch)

	var effects []Effect
	if strings.HasPrefix(branch, "hotfix/") {
		effects = append(effects,
			addLabel(pr.Number, labels.FixHotfix),
			addLabel(pr.Number, labels.Urgent))
	}
	if strings.HasPrefix(branch, "fix/") {
		effects = append(effects, addLabel(pr.Number, labels.FixBug))
	}
	if strings.HasPrefix(branch, "rc/") {
		effects = append(effects, addLabel(pr.Number, labels.ReadyForStaging))
	}
	return effects
}

// handleSynchronize reconciles approval state with the freshly pushed
// commits. A push after approval revokes trust in the approval and dismisses
// it; a push before approval is a normal "please look again" signal with a
// lighter notification.
func (e *Engine) handleSynchronize(ctx context.Context, pr models.PullRequest) []Effect {
	reviews, err := e.lookup.ListReviews(ctx, pr.Number)
	if err != nil {
		e.log.Warn().Err(err).Int("pr", pr.Number).Msg("could not list reviews, assuming no approval")
		reviews = nil
	}

	approving := activeApprovals(reviews)

	var effects []Effect
	if len(approving) > 0 {
		e.log.Info().Int("pr", pr.Number).Msg("pull request had approval, requesting re-review")

		effects = append(effects,
			removeLabel(pr.Number, labels.Approved),
			removeLabel(pr.Number, labels.ReadyForStaging),
			removeLabel(pr.Number, labels.DeployedStaging),
			removeLabel(pr.Number, labels.DeployedProduction),
			addLabel(pr.Number, labels.ReadyForReview),
		)
		effects = append(effects, e.reReviewEffects(pr, approving)...)
		return effects
	}

	e.log.Info().Int("pr", pr.Number).Msg("pull request had no approval, normal flow")

	effects = append(effects,
		removeLabel(pr.Number, labels.RequestChanges),
		addLabel(pr.Number, labels.ReadyForReview),
	)

	var reviewers []string
	for _, r := range reviews {
		reviewers = append(reviewers, r.Author)
	}
	if reviewers = dedupe(reviewers); len(reviewers) > 0 {
		n := Notification{
			PRNumber: pr.Number,
			Audience: AudienceReviewers,
			Template: "new_commits",
			Mentions: reviewers,
		}
		effects = append(effects, comment(pr.Number, n.Body()))
	}

	return effects
}

// reReviewEffects dismisses each standing approval (falling back to
// re-requesting that reviewer if the platform refuses the dismissal),
// re-requests all unique approvers, and posts the re-review comment.
func (e *Engine) reReviewEffects(pr models.PullRequest, approving []models.Review) []Effect {
	var effects []Effect
	var approvers []string

	for _, r := range approving {
		approvers = append(approvers, r.Author)
		effects = append(effects, dismissReview(pr.Number, r.ID, dismissalMessage, r.Author))
	}

	approvers = dedupe(approvers)
	effects = append(effects, requestReviewers(pr.Number, approvers))

	n := Notification{
		PRNumber: pr.Number,
		Audience: AudienceApprovers,
		Template: "re_review",
		Mentions: approvers,
	}
	effects = append(effects, comment(pr.Number, n.Body()))

	return effects
}

// handleClosed marks merged PRs. Deployment labels are deliberately left in
// place as a historical record.
func (e *Engine) handleClosed(pr models.PullRequest) []Effect {
	if !pr.Merged {
		return nil
	}
	return []Effect{addLabel(pr.Number, labels.Merged)}
}

func (e *Engine) handleConvertedToDraft(pr models.PullRequest) []Effect {
	return []Effect{
		removeLabel(pr.Number, labels.ReadyForReview),
		addLabel(pr.Number, labels.Draft),
	}
}

// handleReadyForReview un-drafts the PR. An approval submitted while the PR
// was still a draft short-circuits straight to the approved phase.
func (e *Engine) handleReadyForReview(ctx context.Context, pr models.PullRequest) []Effect {
	if e.hasActiveApproval(ctx, pr.Number) {
		return []Effect{
			removeLabel(pr.Number, labels.Draft),
			addLabel(pr.Number, labels.Approved),
			addLabel(pr.Number, labels.ReadyForStaging),
		}
	}
	return []Effect{
		removeLabel(pr.Number, labels.Draft),
		addLabel(pr.Number, labels.ReadyForReview),
	}
}

// handleEdited re-validates content labels, but only for title edits; body
// churn alone does not re-trigger classification.
func (e *Engine) handleEdited(ctx context.Context, ev event.PullRequestEvent) []Effect {
	if !ev.TitleChanged {
		return nil
	}

	e.log.Info().Int("pr", ev.PR.Number).Msg("title edited, revalidating content labels")

	current, err := e.lookup.ListLabels(ctx, ev.PR.Number)
	if err != nil {
		e.log.Warn().Err(err).Int("pr", ev.PR.Number).Msg("could not list current labels")
		return nil
	}

	var effects []Effect
	for _, l := range StaleContentLabels(ev.PR.Title, ev.PR.Body, current) {
		effects = append(effects, removeLabel(ev.PR.Number, l))
	}
	for _, l := range Classify(ev.PR.Title, ev.PR.Body) {
		effects = append(effects, addLabel(ev.PR.Number, l))
	}
	return effects
}

func (e *Engine) handleReview(ctx context.Context, ev event.ReviewEvent) []Effect {
	e.log.Info().Str("action", ev.Action).Int("pr", ev.PR.Number).Msg("processing review event")

	switch ev.Action {
	case "submitted":
		switch ev.Review.State {
		case models.ReviewChangesRequested:
			return transition(ev.PR.Number, PhaseChangesRequested)
		case models.ReviewApproved:
			return transition(ev.PR.Number, PhaseApproved, labels.Draft)
		case models.ReviewCommented:
			return []Effect{addLabel(ev.PR.Number, labels.InProgress)}
		}
		return nil

	case "dismissed":
		// Return to an unlabeled interim state; the next event re-derives
		// the correct review-status label.
		return []Effect{
			removeLabel(ev.PR.Number, labels.RequestChanges),
			removeLabel(ev.PR.Number, labels.InProgress),
		}
	}

	e.log.Info().Str("action", ev.Action).Msg("review action not supported")
	return nil
}

// transition emits the full label delta for a phase: one remove per
// must-absent label (except those listed in keep) and one add per
// must-present label.
func transition(pr int, p Phase, keep ...labels.Label) []Effect {
	proj := ProjectionFor(p)

	var effects []Effect
	for _, l := range proj.Absent {
		if containsLabel(keep, l) {
			continue
		}
		effects = append(effects, removeLabel(pr, l))
	}
	for _, l := range proj.Present {
		effects = append(effects, addLabel(pr, l))
	}
	return effects
}

func (e *Engine) hasActiveApproval(ctx context.Context, number int) bool {
	reviews, err := e.lookup.ListReviews(ctx, number)
	if err != nil {
		e.log.Warn().Err(err).Int("pr", number).Msg("could not check for approvals")
		return false
	}
	return len(activeApprovals(reviews)) > 0
}

func activeApprovals(reviews []models.Review) []models.Review {
	var approving []models.Review
	for _, r := range reviews {
		if r.State == models.ReviewApproved && r.Active() {
			approving = append(approving, r)
		}
	}
	return approving
}
