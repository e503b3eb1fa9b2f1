package engine

import (
	"strings"

	"github.com/prlabeler/internal/event"
	"github.com/prlabeler/internal/labels"
)

// handleComment applies the comment-command triggers. Only newly created
// comments on actual pull requests count; comments on plain issues are
// ignored. Multiple triggers in one comment all fire independently.
func (e *Engine) handleComment(ev event.CommentEvent) []Effect {
	if !ev.IsOnPR || ev.Action != "created" {
		return nil
	}

	e.log.Info().Int("pr", ev.IssueNumber).Str("author", ev.Author).Msg("processing pull request comment")

	body := strings.ToLower(ev.Body)

	var effects []Effect
	if strings.Contains(body, "!action_required") {
		effects = append(effects, addLabel(ev.IssueNumber, labels.MergeBlockActionRequired))
		if e.opts.TeamID != "" {
			n := Notification{
				PRNumber: ev.IssueNumber,
				Audience: AudienceTeam,
				Template: "action_required",
				TeamID:   e.opts.TeamID,
				Actor:    ev.Author,
			}
			effects = append(effects, comment(ev.IssueNumber, n.Body()))
		}
	}

	if strings.Contains(body, "!urgent") {
		effects = append(effects, addLabel(ev.IssueNumber, labels.Urgent))
	}

	if strings.Contains(body, "!breaking") {
		effects = append(effects, addLabel(ev.IssueNumber, labels.BreakingChange))
	}

	if strings.Contains(body, "!security") {
		effects = append(effects, addLabel(ev.IssueNumber, labels.Security))
	}

	return effects
}
