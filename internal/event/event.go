// Package event models the inbound webhook surface: the tagged event union
// the policy engine consumes, and the decoding of the raw payloads the
// Actions runtime hands us on disk.
package event

import (
	"github.com/prlabeler/pkg/models"
)

// Kind tags the event union.
type Kind string

const (
	KindPullRequest Kind = "pull_request"
	KindReview      Kind = "pull_request_review"
	KindPush        Kind = "push"
	KindSchedule    Kind = "schedule"
	KindComment     Kind = "issue_comment"
)

// Event is the sole input to the policy engine. Exactly one of the payload
// pointers is set, matching Kind.
type Event struct {
	Kind        Kind
	PullRequest *PullRequestEvent
	Review      *ReviewEvent
	Push        *PushEvent
	Schedule    *ScheduledTick
	Comment     *CommentEvent
}

// PullRequestEvent covers opened/synchronize/closed/edited and the draft
// transitions.
type PullRequestEvent struct {
	Action       string
	PR           models.PullRequest
	TitleChanged bool // set from payload.changes.title on edited
}

// ReviewEvent covers submitted and dismissed review actions.
type ReviewEvent struct {
	Action string
	PR     models.PullRequest
	Review models.Review
}

// PushEvent is a branch push with its commit list.
type PushEvent struct {
	Branch  string
	Commits []models.Commit
}

// ScheduledTick has no payload; the engine re-derives everything it needs.
type ScheduledTick struct{}

// CommentEvent is an issue comment. IsOnPR distinguishes comments on pull
// requests from comments on plain issues, which the engine ignores.
type CommentEvent struct {
	Action      string
	IssueNumber int
	IsOnPR      bool
	Body        string
	Author      string
}
