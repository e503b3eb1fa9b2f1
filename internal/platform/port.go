// Package platform declares the narrow ports through which the policy engine
// talks to the code-hosting platform. Concrete clients live in subpackages;
// the engine only ever sees these interfaces.
package platform

import (
	"context"

	"github.com/prlabeler/internal/labels"
	"github.com/prlabeler/pkg/models"
)

// PRFilter narrows ListPullRequests. Zero values mean "no filter".
type PRFilter struct {
	State      string // "open", "closed", "" for platform default
	HeadBranch string
	SortBy     string // "updated" etc.
	Descending bool
	PerPage    int
}

// Lookup is the read side of the port. Every method reflects platform state
// as of the call; nothing is cached between calls.
type Lookup interface {
	ListPullRequests(ctx context.Context, f PRFilter) ([]models.PullRequest, error)
	GetPullRequest(ctx context.Context, number int) (models.PullRequest, error)
	ListReviews(ctx context.Context, number int) ([]models.Review, error)
	ListCommits(ctx context.Context, number int) ([]models.Commit, error)
	// ListLinkedPullRequests asks the platform which PRs reference a commit.
	// The feature is fragile; callers must treat an error as "unknown" and
	// fall through to other strategies.
	ListLinkedPullRequests(ctx context.Context, sha string) ([]models.PullRequest, error)
	ListLabels(ctx context.Context, number int) ([]labels.Label, error)
}

// Mutator is the write side of the port. AddLabel lazily creates the label
// on first use. RemoveLabel of an absent label and AddLabel of a present one
// are expected no-ops, not errors.
type Mutator interface {
	AddLabel(ctx context.Context, number int, label labels.Label) error
	RemoveLabel(ctx context.Context, number int, label labels.Label) error
	CreateComment(ctx context.Context, number int, body string) error
	RequestReviewers(ctx context.Context, number int, reviewers []string) error
	DismissReview(ctx context.Context, number int, reviewID int64, message string) error
	EnsureLabel(ctx context.Context, label labels.Label) error
}

// Port combines both sides; the GitHub client implements it.
type Port interface {
	Lookup
	Mutator
}
