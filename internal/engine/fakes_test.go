package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/prlabeler/internal/labels"
	"github.com/prlabeler/internal/platform"
	"github.com/prlabeler/pkg/models"
)

// fakeLookup is an in-memory platform read port. Every call records its
// method name so tests can assert strategy ordering.
type fakeLookup struct {
	open    []models.PullRequest
	closed  []models.PullRequest
	prs     map[int]models.PullRequest
	reviews map[int][]models.Review
	commits map[int][]models.Commit
	linked  map[string][]models.PullRequest
	labels  map[int][]labels.Label

	linkedErr  error
	reviewsErr error
	listErr    error

	calls []string
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		prs:     map[int]models.PullRequest{},
		reviews: map[int][]models.Review{},
		commits: map[int][]models.Commit{},
		linked:  map[string][]models.PullRequest{},
		labels:  map[int][]labels.Label{},
	}
}

func (f *fakeLookup) ListPullRequests(_ context.Context, filter platform.PRFilter) ([]models.PullRequest, error) {
	f.calls = append(f.calls, "ListPullRequests")
	if f.listErr != nil {
		return nil, f.listErr
	}

	source := f.open
	if filter.State == "closed" {
		source = f.closed
	}

	var out []models.PullRequest
	for _, pr := range source {
		if filter.HeadBranch != "" && pr.HeadBranch != filter.HeadBranch {
			continue
		}
		out = append(out, pr)
	}
	if filter.PerPage > 0 && len(out) > filter.PerPage {
		out = out[:filter.PerPage]
	}
	return out, nil
}

func (f *fakeLookup) GetPullRequest(_ context.Context, number int) (models.PullRequest, error) {
	f.calls = append(f.calls, "GetPullRequest")
	pr, ok := f.prs[number]
	if !ok {
		return models.PullRequest{}, errors.New("not found")
	}
	return pr, nil
}

func (f *fakeLookup) ListReviews(_ context.Context, number int) ([]models.Review, error) {
	f.calls = append(f.calls, "ListReviews")
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	return f.reviews[number], nil
}

func (f *fakeLookup) ListCommits(_ context.Context, number int) ([]models.Commit, error) {
	f.calls = append(f.calls, "ListCommits")
	return f.commits[number], nil
}

func (f *fakeLookup) ListLinkedPullRequests(_ context.Context, sha string) ([]models.PullRequest, error) {
	f.calls = append(f.calls, "ListLinkedPullRequests")
	if f.linkedErr != nil {
		return nil, f.linkedErr
	}
	return f.linked[sha], nil
}

func (f *fakeLookup) ListLabels(_ context.Context, number int) ([]labels.Label, error) {
	f.calls = append(f.calls, "ListLabels")
	return f.labels[number], nil
}

func (f *fakeLookup) called(method string) int {
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

// fakeMutator records applied effects and can be told to fail specific ops.
type fakeMutator struct {
	ops []string

	addErr     map[labels.Label]error
	dismissErr error

	requested [][]string
	comments  []string
}

func newFakeMutator() *fakeMutator {
	return &fakeMutator{addErr: map[labels.Label]error{}}
}

func (f *fakeMutator) AddLabel(_ context.Context, number int, label labels.Label) error {
	if err := f.addErr[label]; err != nil {
		return err
	}
	f.ops = append(f.ops, "add:"+string(label))
	return nil
}

func (f *fakeMutator) RemoveLabel(_ context.Context, number int, label labels.Label) error {
	f.ops = append(f.ops, "remove:"+string(label))
	return nil
}

func (f *fakeMutator) CreateComment(_ context.Context, number int, body string) error {
	f.ops = append(f.ops, "comment")
	f.comments = append(f.comments, body)
	return nil
}

func (f *fakeMutator) RequestReviewers(_ context.Context, number int, reviewers []string) error {
	f.ops = append(f.ops, "request_reviewers")
	f.requested = append(f.requested, reviewers)
	return nil
}

func (f *fakeMutator) DismissReview(_ context.Context, number int, reviewID int64, message string) error {
	if f.dismissErr != nil {
		return f.dismissErr
	}
	f.ops = append(f.ops, "dismiss")
	return nil
}

func (f *fakeMutator) EnsureLabel(_ context.Context, label labels.Label) error {
	return nil
}

// newTestEngine builds an engine over a fake lookup with a fixed clock.
func newTestEngine(lookup *fakeLookup, opts Options) *Engine {
	e := New(lookup, opts, zerolog.Nop())
	e.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	e.correlator.now = e.now
	return e
}

// labelEffects filters a batch down to "add:Name"/"remove:Name" strings for
// compact assertions.
func labelEffects(effects []Effect) []string {
	var out []string
	for _, ef := range effects {
		switch ef.Kind {
		case EffectAddLabel:
			out = append(out, "add:"+string(ef.Label))
		case EffectRemoveLabel:
			out = append(out, "remove:"+string(ef.Label))
		}
	}
	return out
}
