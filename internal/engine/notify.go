package engine

import (
	"fmt"
	"strings"
)

// Audience identifies who a notification is aimed at.
type Audience string

const (
	AudienceReviewers Audience = "reviewers"
	AudienceApprovers Audience = "approvers"
	AudienceAuthor    Audience = "author"
	AudienceTeam      Audience = "team"
)

// Notification is a composed-but-not-yet-posted comment. Body() renders the
// template; the engine wraps the result in a comment effect.
type Notification struct {
	PRNumber int
	Audience Audience
	Template string
	Mentions []string
	Actor    string // commenter handle for action_required
	TeamID   string
	Days     int // abandonment threshold for the abandoned template
}

// dedupe keeps the first occurrence of each handle, case-sensitively.
func dedupe(handles []string) []string {
	seen := make(map[string]struct{}, len(handles))
	out := make([]string, 0, len(handles))
	for _, h := range handles {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

// mentionLine renders "@a @b @c" from a deduplicated handle list.
func mentionLine(handles []string) string {
	if len(handles) == 0 {
		return ""
	}
	return "@" + strings.Join(dedupe(handles), " @")
}

// Body renders the notification text. Unknown templates fall back to the
// generic team notice.
func (n Notification) Body() string {
	switch n.Template {
	case "re_review":
		return fmt.Sprintf("🔄 **Re-review Required**\n\n%s \n\n"+
			"New commits have been pushed after your approval. Please review the changes and re-approve if everything looks good.\n\n"+
			"**Previous approvals have been dismissed due to new changes.**",
			mentionLine(n.Mentions))

	case "new_commits":
		return fmt.Sprintf("%s New commits have been pushed. Please review the changes.",
			mentionLine(n.Mentions))

	case "production":
		if n.Audience == AudienceTeam {
			return fmt.Sprintf("🚀 **Production Deployment** - @%s\n\nPR #%d has been deployed to production.",
				n.TeamID, n.PRNumber)
		}
		return fmt.Sprintf("🎉 Your PR #%d has been deployed to production!", n.PRNumber)

	case "abandoned":
		return fmt.Sprintf("⚠️ Your PR #%d has been inactive for %d days and has been marked as abandoned. "+
			"Please review and either update or close it.", n.PRNumber, n.Days)

	case "action_required":
		return fmt.Sprintf("🚨 **Action Required** - @%s\n\n@%s has flagged this PR as requiring action. "+
			"Please review and take necessary steps.", n.TeamID, n.Actor)

	case "urgent":
		return fmt.Sprintf("⚡ **Urgent** - @%s\n\nThis PR has been marked as urgent and requires immediate attention.",
			n.TeamID)

	case "breaking":
		return fmt.Sprintf("💥 **Breaking Change** - @%s\n\nThis PR contains breaking changes that may affect other systems.",
			n.TeamID)

	case "security":
		return fmt.Sprintf("🔒 **Security** - @%s\n\nThis PR contains security-related changes that require careful review.",
			n.TeamID)
	}

	return fmt.Sprintf("📢 **Notification** - @%s\n\nUpdate regarding PR #%d.", n.TeamID, n.PRNumber)
}
