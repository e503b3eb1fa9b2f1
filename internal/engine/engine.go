// Package engine contains the label-state transition policy: pure(ish)
// decision functions that map one inbound event plus freshly queried
// repository state to an ordered list of effects.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/prlabeler/internal/event"
	"github.com/prlabeler/internal/platform"
)

// Options are the policy thresholds supplied by configuration.
type Options struct {
	StagingBranch    string
	ProductionBranch string
	AbandonedDays    int
	CheckConflicts   bool
	TeamID           string // empty disables all team notifications
}

// Engine computes effects. It reads platform state through the lookup port
// only; all writes happen later in the Executor.
type Engine struct {
	lookup     platform.Lookup
	correlator *Correlator
	opts       Options
	log        zerolog.Logger
	now        func() time.Time
}

// New builds an engine over the platform's read port.
func New(lookup platform.Lookup, opts Options, log zerolog.Logger) *Engine {
	return &Engine{
		lookup:     lookup,
		correlator: NewCorrelator(lookup, log),
		opts:       opts,
		log:        log,
		now:        time.Now,
	}
}

// Route dispatches an event to its handler and returns the effect batch.
// Unrecognized events and actions yield an empty batch; they are logged and
// never fatal.
func (e *Engine) Route(ctx context.Context, ev event.Event) []Effect {
	switch ev.Kind {
	case event.KindPullRequest:
		if ev.PullRequest == nil {
			e.log.Warn().Msg("pull_request event without payload")
			return nil
		}
		return e.handlePullRequest(ctx, *ev.PullRequest)

	case event.KindReview:
		if ev.Review == nil {
			e.log.Warn().Msg("pull_request_review event without payload")
			return nil
		}
		return e.handleReview(ctx, *ev.Review)

	case event.KindPush:
		if ev.Push == nil {
			e.log.Warn().Msg("push event without payload")
			return nil
		}
		return e.handlePush(ctx, *ev.Push)

	case event.KindSchedule:
		return e.handleSchedule(ctx)

	case event.KindComment:
		if ev.Comment == nil {
			e.log.Warn().Msg("issue_comment event without payload")
			return nil
		}
		return e.handleComment(*ev.Comment)
	}

	e.log.Info().Str("event", string(ev.Kind)).Msg("event not supported")
	return nil
}
