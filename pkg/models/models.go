package models

import (
	"time"
)

// PullRequest is an immutable snapshot of a pull request as reported by the
// platform at the start of the current run. The engine never mutates it.
type PullRequest struct {
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	State      string     `json:"state"`
	Draft      bool       `json:"draft"`
	Merged     bool       `json:"merged"`
	MergedAt   *time.Time `json:"merged_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
	HeadBranch string     `json:"head_branch"`
	BaseBranch string     `json:"base_branch"`
	Author     string     `json:"author"`
	// Mergeable is the platform's tri-state conflict computation:
	// true, false, or nil while the platform is still recomputing.
	Mergeable *bool `json:"mergeable,omitempty"`
}

// ReviewState is the platform-reported state of a single review.
type ReviewState string

const (
	ReviewApproved         ReviewState = "APPROVED"
	ReviewChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewCommented        ReviewState = "COMMENTED"
	ReviewDismissed        ReviewState = "DISMISSED"
)

// Review is one review on a pull request. Many reviews may exist per
// reviewer; callers that care about "current approval" must filter out
// dismissed entries themselves.
type Review struct {
	ID          int64       `json:"id"`
	Author      string      `json:"author"`
	State       ReviewState `json:"state"`
	DismissedAt *time.Time  `json:"dismissed_at,omitempty"`
}

// Active reports whether the review still counts, i.e. it has not been
// dismissed either via the dismissal timestamp or the DISMISSED state.
func (r Review) Active() bool {
	return r.State != ReviewDismissed && r.DismissedAt == nil
}

// Commit carries the two fields the correlator needs. SHA may be empty when
// the push payload was malformed; callers degrade to message matching.
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}
