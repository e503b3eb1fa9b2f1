// Package github implements the platform port against the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v71/github"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/prlabeler/internal/labels"
	"github.com/prlabeler/internal/platform"
	"github.com/prlabeler/internal/retry"
	"github.com/prlabeler/pkg/models"
)

// requestsPerSecond keeps a single run comfortably inside the authenticated
// REST budget even on the brute-force correlation path.
const requestsPerSecond = 5

// Client talks to one repository. It implements platform.Port.
type Client struct {
	gh      *gh.Client
	owner   string
	repo    string
	limiter *rate.Limiter
	retry   retry.Config
	log     zerolog.Logger
}

var _ platform.Port = (*Client)(nil)

// New builds a client for the `owner/name` repository slug.
func New(token, repository string, log zerolog.Logger) (*Client, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository %q, want owner/name", repository)
	}

	return &Client{
		gh:      gh.NewClient(nil).WithAuthToken(token),
		owner:   owner,
		repo:    repo,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		retry:   retry.PlatformConfig(),
		log:     log,
	}, nil
}

func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// statusCode extracts the HTTP status from a go-github error, or 0.
func statusCode(err error) int {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

// --- Lookup ---

func (c *Client) ListPullRequests(ctx context.Context, f platform.PRFilter) ([]models.PullRequest, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListOptions{State: f.State}
	if f.HeadBranch != "" {
		opts.Head = c.owner + ":" + f.HeadBranch
	}
	if f.SortBy != "" {
		opts.Sort = f.SortBy
	}
	if f.Descending {
		opts.Direction = "desc"
	}
	if f.PerPage > 0 {
		opts.ListOptions.PerPage = f.PerPage
	}

	prs, _, err := c.gh.PullRequests.List(ctx, c.owner, c.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("listing pull requests: %w", err)
	}

	out := make([]models.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, convertPR(pr))
	}
	return out, nil
}

func (c *Client) GetPullRequest(ctx context.Context, number int) (models.PullRequest, error) {
	if err := c.wait(ctx); err != nil {
		return models.PullRequest{}, err
	}

	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return models.PullRequest{}, fmt.Errorf("getting pull request #%d: %w", number, err)
	}
	return convertPR(pr), nil
}

func (c *Client) ListReviews(ctx context.Context, number int) ([]models.Review, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	reviews, _, err := c.gh.PullRequests.ListReviews(ctx, c.owner, c.repo, number, nil)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for #%d: %w", number, err)
	}

	out := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, models.Review{
			ID:     r.GetID(),
			Author: r.GetUser().GetLogin(),
			State:  models.ReviewState(r.GetState()),
		})
	}
	return out, nil
}

func (c *Client) ListCommits(ctx context.Context, number int) ([]models.Commit, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	commits, _, err := c.gh.PullRequests.ListCommits(ctx, c.owner, c.repo, number,
		&gh.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("listing commits for #%d: %w", number, err)
	}

	out := make([]models.Commit, 0, len(commits))
	for _, rc := range commits {
		out = append(out, models.Commit{
			SHA:     rc.GetSHA(),
			Message: rc.GetCommit().GetMessage(),
		})
	}
	return out, nil
}

func (c *Client) ListLinkedPullRequests(ctx context.Context, sha string) ([]models.PullRequest, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	prs, _, err := c.gh.PullRequests.ListPullRequestsWithCommit(ctx, c.owner, c.repo, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("listing pull requests for commit %s: %w", sha, err)
	}

	out := make([]models.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, convertPR(pr))
	}
	return out, nil
}

func (c *Client) ListLabels(ctx context.Context, number int) ([]labels.Label, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	ghLabels, _, err := c.gh.Issues.ListLabelsByIssue(ctx, c.owner, c.repo, number,
		&gh.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("listing labels on #%d: %w", number, err)
	}

	out := make([]labels.Label, 0, len(ghLabels))
	for _, l := range ghLabels {
		out = append(out, labels.Label(l.GetName()))
	}
	return out, nil
}

// --- Mutator ---

func (c *Client) AddLabel(ctx context.Context, number int, label labels.Label) error {
	if err := c.EnsureLabel(ctx, label); err != nil {
		return err
	}

	return retry.Do(ctx, c.retry, c.log, func() error {
		if err := c.wait(ctx); err != nil {
			return err
		}
		_, _, err := c.gh.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, []string{string(label)})
		if err != nil {
			// 422 means the label is already present; an expected no-op.
			if statusCode(err) == http.StatusUnprocessableEntity {
				return nil
			}
			return fmt.Errorf("adding label %q to #%d: %w", label, number, err)
		}
		return nil
	})
}

func (c *Client) RemoveLabel(ctx context.Context, number int, label labels.Label) error {
	return retry.Do(ctx, c.retry, c.log, func() error {
		if err := c.wait(ctx); err != nil {
			return err
		}
		_, err := c.gh.Issues.RemoveLabelForIssue(ctx, c.owner, c.repo, number, string(label))
		if err != nil {
			// The label was not on the PR; an expected no-op.
			if statusCode(err) == http.StatusNotFound {
				return nil
			}
			return fmt.Errorf("removing label %q from #%d: %w", label, number, err)
		}
		return nil
	})
}

func (c *Client) CreateComment(ctx context.Context, number int, body string) error {
	return retry.Do(ctx, c.retry, c.log, func() error {
		if err := c.wait(ctx); err != nil {
			return err
		}
		_, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, number,
			&gh.IssueComment{Body: gh.Ptr(body)})
		if err != nil {
			return fmt.Errorf("commenting on #%d: %w", number, err)
		}
		return nil
	})
}

func (c *Client) RequestReviewers(ctx context.Context, number int, reviewers []string) error {
	if len(reviewers) == 0 {
		return nil
	}

	return retry.Do(ctx, c.retry, c.log, func() error {
		if err := c.wait(ctx); err != nil {
			return err
		}
		_, _, err := c.gh.PullRequests.RequestReviewers(ctx, c.owner, c.repo, number,
			gh.ReviewersRequest{Reviewers: reviewers})
		if err != nil {
			return fmt.Errorf("requesting reviewers on #%d: %w", number, err)
		}
		return nil
	})
}

func (c *Client) DismissReview(ctx context.Context, number int, reviewID int64, message string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.gh.PullRequests.DismissReview(ctx, c.owner, c.repo, number, reviewID,
		&gh.PullRequestReviewDismissalRequest{Message: gh.Ptr(message)})
	if err != nil {
		return fmt.Errorf("dismissing review %d on #%d: %w", reviewID, number, err)
	}
	return nil
}

// EnsureLabel creates the label with its catalog color and description if the
// repository does not have it yet.
func (c *Client) EnsureLabel(ctx context.Context, label labels.Label) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.gh.Issues.GetLabel(ctx, c.owner, c.repo, string(label))
	if err == nil {
		return nil
	}
	if statusCode(err) != http.StatusNotFound {
		return fmt.Errorf("getting label %q: %w", label, err)
	}

	spec := labels.Lookup(label)
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, _, err = c.gh.Issues.CreateLabel(ctx, c.owner, c.repo, &gh.Label{
		Name:        gh.Ptr(string(label)),
		Color:       gh.Ptr(spec.Color),
		Description: gh.Ptr(spec.Description),
	})
	if err != nil {
		// Lost a create race; the label exists now either way.
		if statusCode(err) == http.StatusUnprocessableEntity {
			return nil
		}
		return fmt.Errorf("creating label %q: %w", label, err)
	}

	c.log.Info().Str("label", string(label)).Str("color", spec.Color).Msg("created label")
	return nil
}

func convertPR(pr *gh.PullRequest) models.PullRequest {
	out := models.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		Body:       pr.GetBody(),
		State:      pr.GetState(),
		Draft:      pr.GetDraft(),
		Merged:     pr.GetMerged(),
		UpdatedAt:  pr.GetUpdatedAt().Time,
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		Author:     pr.GetUser().GetLogin(),
		Mergeable:  pr.Mergeable,
	}
	if pr.MergedAt != nil {
		t := pr.MergedAt.Time
		out.MergedAt = &t
		out.Merged = true
	}
	return out
}
