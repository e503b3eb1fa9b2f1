package engine

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/prlabeler/internal/platform"
	"github.com/prlabeler/pkg/models"
)

// How far back a merged PR may lie and still be matched by branch name.
const mergedLookback = 30 * 24 * time.Hour

// Page bounds for the brute-force scan.
const (
	bruteForcePRPage = 50
	branchMatchPage  = 10
)

var (
	mergePullRequestRe = regexp.MustCompile(`Merge pull request #(\d+)`)
	mergeBranchRe      = regexp.MustCompile(`Merge branch '([^']+)'`)
	autoMergeRe        = regexp.MustCompile(`Auto-merge of #(\d+)`)
)

// mergeMarkers gate the message-pattern strategy; a commit whose message
// carries none of these is not treated as a merge commit.
var mergeMarkers = []string{
	"Merge pull request",
	"Merge branch",
	"Merge remote-tracking branch",
	"Auto-merge of #",
}

// strategy resolves a commit to candidate PRs. An empty result (with or
// without error) means "try the next one".
type strategy func(ctx context.Context, commit models.Commit) ([]models.PullRequest, error)

// Correlator resolves a pushed commit back to the pull request(s) it came
// from. Strategies run in a fixed priority order and the first non-empty
// result wins; every miss or error is a fall-through, never a failure.
type Correlator struct {
	lookup     platform.Lookup
	log        zerolog.Logger
	now        func() time.Time
	strategies []strategy
}

// NewCorrelator wires the strategy chain: platform-linked PRs first, then
// merge-message parsing, then the brute-force scan of open PRs.
func NewCorrelator(lookup platform.Lookup, log zerolog.Logger) *Correlator {
	c := &Correlator{lookup: lookup, log: log, now: time.Now}
	c.strategies = []strategy{c.byLinkedPR, c.byMergeMessage, c.byCommitScan}
	return c
}

// Resolve returns the PRs owning the commit, or an empty slice when nothing
// matched. A commit without a usable SHA skips SHA-based strategies but still
// gets message-pattern resolution.
func (c *Correlator) Resolve(ctx context.Context, commit models.Commit) []models.PullRequest {
	for _, strat := range c.strategies {
		prs, err := strat(ctx, commit)
		if err != nil {
			c.log.Debug().Err(err).Str("sha", commit.SHA).Msg("correlation strategy failed, falling through")
			continue
		}
		if len(prs) > 0 {
			return prs
		}
	}

	c.log.Info().Str("sha", commit.SHA).Msg("no pull request found for commit")
	return nil
}

// byLinkedPR asks the platform for the commit's linked-PR references and
// fetches each full PR. The linkage metadata is fragile; any error falls
// through to the next strategy.
func (c *Correlator) byLinkedPR(ctx context.Context, commit models.Commit) ([]models.PullRequest, error) {
	if !usableSHA(commit.SHA) {
		return nil, nil
	}

	refs, err := c.lookup.ListLinkedPullRequests(ctx, commit.SHA)
	if err != nil {
		return nil, err
	}

	prs := make([]models.PullRequest, 0, len(refs))
	for _, ref := range refs {
		pr, err := c.lookup.GetPullRequest(ctx, ref.Number)
		if err != nil {
			c.log.Warn().Err(err).Int("pr", ref.Number).Msg("could not fetch linked pull request")
			continue
		}
		prs = append(prs, pr)
	}
	return prs, nil
}

// byMergeMessage recovers PR linkage from merge-commit message conventions.
func (c *Correlator) byMergeMessage(ctx context.Context, commit models.Commit) ([]models.PullRequest, error) {
	if !looksLikeMerge(commit.Message) {
		return nil, nil
	}

	if m := mergePullRequestRe.FindStringSubmatch(commit.Message); m != nil {
		return c.mergedPROnly(ctx, m[1])
	}

	if m := mergeBranchRe.FindStringSubmatch(commit.Message); m != nil {
		return c.byBranchName(ctx, m[1])
	}

	if m := autoMergeRe.FindStringSubmatch(commit.Message); m != nil {
		return c.mergedPROnly(ctx, m[1])
	}

	return nil, nil
}

// mergedPROnly fetches a PR by number and keeps it only if it is actually
// closed and merged; an open or unmerged PR of the same number is a false
// positive from an unrelated message.
func (c *Correlator) mergedPROnly(ctx context.Context, number string) ([]models.PullRequest, error) {
	n, err := strconv.Atoi(number)
	if err != nil {
		return nil, nil
	}

	pr, err := c.lookup.GetPullRequest(ctx, n)
	if err != nil {
		return nil, err
	}
	if pr.State != "closed" || pr.MergedAt == nil {
		c.log.Debug().Int("pr", n).Msg("message names an unmerged pull request, skipping")
		return nil, nil
	}
	return []models.PullRequest{pr}, nil
}

// byBranchName unions open PRs with the branch as head and PRs merged from
// that branch within the lookback window.
func (c *Correlator) byBranchName(ctx context.Context, branch string) ([]models.PullRequest, error) {
	open, err := c.lookup.ListPullRequests(ctx, platform.PRFilter{
		State:      "open",
		HeadBranch: branch,
	})
	if err != nil {
		return nil, err
	}

	closed, err := c.lookup.ListPullRequests(ctx, platform.PRFilter{
		State:      "closed",
		HeadBranch: branch,
		SortBy:     "updated",
		Descending: true,
		PerPage:    branchMatchPage,
	})
	if err != nil {
		return nil, err
	}

	cutoff := c.now().Add(-mergedLookback)
	out := open
	for _, pr := range closed {
		if pr.MergedAt != nil && pr.MergedAt.After(cutoff) {
			out = append(out, pr)
		}
	}
	return out, nil
}

// byCommitScan is the last resort: list recently updated open PRs and test
// each one's commit list for the target SHA. Per-PR failures are skipped so
// one broken PR cannot hide a match in its siblings.
func (c *Correlator) byCommitScan(ctx context.Context, commit models.Commit) ([]models.PullRequest, error) {
	if !usableSHA(commit.SHA) {
		return nil, nil
	}

	prs, err := c.lookup.ListPullRequests(ctx, platform.PRFilter{
		State:      "open",
		SortBy:     "updated",
		Descending: true,
		PerPage:    bruteForcePRPage,
	})
	if err != nil {
		return nil, err
	}

	var matched []models.PullRequest
	for _, pr := range prs {
		commits, err := c.lookup.ListCommits(ctx, pr.Number)
		if err != nil {
			c.log.Warn().Err(err).Int("pr", pr.Number).Msg("could not list commits, skipping pull request")
			continue
		}
		for _, prCommit := range commits {
			if prCommit.SHA == commit.SHA {
				matched = append(matched, pr)
				break
			}
		}
	}
	return matched, nil
}

func usableSHA(sha string) bool {
	return sha != "" && sha != "unknown"
}

func looksLikeMerge(message string) bool {
	for _, marker := range mergeMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}
