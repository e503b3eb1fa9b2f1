package event

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prlabeler/pkg/models"
)

// Environment variables set by the Actions runtime.
const (
	EnvEventName = "GITHUB_EVENT_NAME"
	EnvEventPath = "GITHUB_EVENT_PATH"
)

// FromEnvironment reads the event name and payload file the runtime provides
// and decodes them into the engine's event union.
func FromEnvironment() (Event, error) {
	name := os.Getenv(EnvEventName)
	if name == "" {
		return Event{}, fmt.Errorf("%s is not set", EnvEventName)
	}

	if Kind(name) == KindSchedule {
		// Scheduled ticks carry no payload worth reading.
		return Event{Kind: KindSchedule, Schedule: &ScheduledTick{}}, nil
	}

	path := os.Getenv(EnvEventPath)
	if path == "" {
		return Event{}, fmt.Errorf("%s is not set", EnvEventPath)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Event{}, fmt.Errorf("reading event payload: %w", err)
	}

	return Decode(name, raw)
}

// Decode turns a named raw payload into an Event. Unknown event names are an
// error here; the router decides whether that is fatal.
func Decode(name string, raw []byte) (Event, error) {
	switch Kind(name) {
	case KindPullRequest:
		var p PullRequestPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return Event{}, fmt.Errorf("decoding pull_request payload: %w", err)
		}
		return Event{
			Kind: KindPullRequest,
			PullRequest: &PullRequestEvent{
				Action:       p.Action,
				PR:           convertPR(p.PullRequest),
				TitleChanged: p.Changes != nil && p.Changes.Title != nil,
			},
		}, nil

	case KindReview:
		var p ReviewPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return Event{}, fmt.Errorf("decoding pull_request_review payload: %w", err)
		}
		return Event{
			Kind: KindReview,
			Review: &ReviewEvent{
				Action: p.Action,
				PR:     convertPR(p.PullRequest),
				Review: convertReview(p.Review),
			},
		}, nil

	case KindPush:
		var p PushPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return Event{}, fmt.Errorf("decoding push payload: %w", err)
		}
		commits := make([]models.Commit, 0, len(p.Commits))
		for _, c := range p.Commits {
			commits = append(commits, models.Commit{SHA: commitSHA(c), Message: c.Message})
		}
		return Event{
			Kind: KindPush,
			Push: &PushEvent{
				Branch:  strings.TrimPrefix(p.Ref, "refs/heads/"),
				Commits: commits,
			},
		}, nil

	case KindSchedule:
		return Event{Kind: KindSchedule, Schedule: &ScheduledTick{}}, nil

	case KindComment:
		var p IssueCommentPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return Event{}, fmt.Errorf("decoding issue_comment payload: %w", err)
		}
		return Event{
			Kind: KindComment,
			Comment: &CommentEvent{
				Action:      p.Action,
				IssueNumber: p.Issue.Number,
				IsOnPR:      p.Issue.PullRequest != nil,
				Body:        p.Comment.Body,
				Author:      p.Comment.User.Login,
			},
		}, nil
	}

	return Event{}, fmt.Errorf("unsupported event name %q", name)
}

// commitSHA tolerates push payloads that use `id` instead of `sha`, and
// payloads carrying neither. An empty result means SHA-based correlation is
// skipped for that commit.
func commitSHA(c RawCommit) string {
	if c.SHA != "" {
		return c.SHA
	}
	return c.ID
}

func convertPR(raw RawPullRequest) models.PullRequest {
	pr := models.PullRequest{
		Number:     raw.Number,
		Title:      raw.Title,
		Body:       raw.Body,
		State:      raw.State,
		Draft:      raw.Draft,
		Merged:     raw.Merged,
		HeadBranch: raw.Head.Ref,
		BaseBranch: raw.Base.Ref,
		Author:     raw.User.Login,
		Mergeable:  raw.Mergeable,
	}
	if t, err := time.Parse(time.RFC3339, raw.UpdatedAt); err == nil {
		pr.UpdatedAt = t
	}
	if raw.MergedAt != nil {
		if t, err := time.Parse(time.RFC3339, *raw.MergedAt); err == nil {
			pr.MergedAt = &t
		}
	}
	return pr
}

func convertReview(raw RawReview) models.Review {
	r := models.Review{
		ID:     raw.ID,
		Author: raw.User.Login,
		State:  models.ReviewState(strings.ToUpper(raw.State)),
	}
	if raw.DismissedAt != nil {
		if t, err := time.Parse(time.RFC3339, *raw.DismissedAt); err == nil {
			r.DismissedAt = &t
		}
	}
	return r
}
