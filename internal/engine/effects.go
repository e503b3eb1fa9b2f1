package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prlabeler/internal/labels"
	"github.com/prlabeler/internal/platform"
)

// EffectKind enumerates the mutations the policy engine can request.
type EffectKind int

const (
	EffectAddLabel EffectKind = iota
	EffectRemoveLabel
	EffectComment
	EffectRequestReviewers
	EffectDismissReview
)

// String returns the effect kind for log lines.
func (k EffectKind) String() string {
	switch k {
	case EffectAddLabel:
		return "add_label"
	case EffectRemoveLabel:
		return "remove_label"
	case EffectComment:
		return "comment"
	case EffectRequestReviewers:
		return "request_reviewers"
	case EffectDismissReview:
		return "dismiss_review"
	}
	return fmt.Sprintf("effect(%d)", int(k))
}

// Effect is one independent platform mutation. Effects in a batch carry no
// ordering dependency on each other beyond slice order; a failing effect
// never blocks the rest of the batch.
type Effect struct {
	Kind  EffectKind
	PR    int
	Label labels.Label

	// Comment body, for EffectComment.
	Body string

	// Reviewers to (re-)request, for EffectRequestReviewers.
	Reviewers []string

	// Review dismissal fields, for EffectDismissReview. FallbackReviewer is
	// re-requested when the dismissal itself is rejected by the platform.
	ReviewID         int64
	Message          string
	FallbackReviewer string
}

func addLabel(pr int, l labels.Label) Effect {
	return Effect{Kind: EffectAddLabel, PR: pr, Label: l}
}

func removeLabel(pr int, l labels.Label) Effect {
	return Effect{Kind: EffectRemoveLabel, PR: pr, Label: l}
}

func comment(pr int, body string) Effect {
	return Effect{Kind: EffectComment, PR: pr, Body: body}
}

func requestReviewers(pr int, reviewers []string) Effect {
	return Effect{Kind: EffectRequestReviewers, PR: pr, Reviewers: reviewers}
}

func dismissReview(pr int, reviewID int64, message, fallbackReviewer string) Effect {
	return Effect{
		Kind:             EffectDismissReview,
		PR:               pr,
		ReviewID:         reviewID,
		Message:          message,
		FallbackReviewer: fallbackReviewer,
	}
}

// Executor applies effects against the platform, best-effort. Each effect's
// error is logged with its operation and target and the batch continues.
type Executor struct {
	mut platform.Mutator
	log zerolog.Logger
}

// NewExecutor builds an executor over the platform's write port.
func NewExecutor(mut platform.Mutator, log zerolog.Logger) *Executor {
	return &Executor{mut: mut, log: log}
}

// Apply runs the batch sequentially. It returns the number of effects that
// failed, which callers use for informational logging only.
func (x *Executor) Apply(ctx context.Context, effects []Effect) int {
	failed := 0
	for _, ef := range effects {
		if err := x.apply(ctx, ef); err != nil {
			failed++
			x.log.Warn().
				Err(err).
				Str("effect", ef.Kind.String()).
				Int("pr", ef.PR).
				Str("label", string(ef.Label)).
				Msg("effect failed, continuing batch")
		}
	}
	return failed
}

func (x *Executor) apply(ctx context.Context, ef Effect) error {
	switch ef.Kind {
	case EffectAddLabel:
		if err := x.mut.AddLabel(ctx, ef.PR, ef.Label); err != nil {
			return err
		}
		x.log.Info().Int("pr", ef.PR).Str("label", string(ef.Label)).Msg("added label")
		return nil

	case EffectRemoveLabel:
		if err := x.mut.RemoveLabel(ctx, ef.PR, ef.Label); err != nil {
			return err
		}
		x.log.Info().Int("pr", ef.PR).Str("label", string(ef.Label)).Msg("removed label")
		return nil

	case EffectComment:
		return x.mut.CreateComment(ctx, ef.PR, ef.Body)

	case EffectRequestReviewers:
		return x.mut.RequestReviewers(ctx, ef.PR, ef.Reviewers)

	case EffectDismissReview:
		err := x.mut.DismissReview(ctx, ef.PR, ef.ReviewID, ef.Message)
		if err != nil && ef.FallbackReviewer != "" {
			x.log.Warn().
				Err(err).
				Int("pr", ef.PR).
				Int64("review", ef.ReviewID).
				Str("reviewer", ef.FallbackReviewer).
				Msg("dismissal rejected, re-requesting reviewer instead")
			return x.mut.RequestReviewers(ctx, ef.PR, []string{ef.FallbackReviewer})
		}
		return err
	}

	return fmt.Errorf("unknown effect kind %d", ef.Kind)
}
