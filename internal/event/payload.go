package event

// Raw webhook payload shapes, declared field-by-field the way GitHub sends
// them. Only the fields the policy engine reads are declared; everything
// else in the payload is ignored by encoding/json.

// PullRequestPayload is the payload for pull_request events.
type PullRequestPayload struct {
	Action      string            `json:"action"`
	Number      int               `json:"number"`
	PullRequest RawPullRequest    `json:"pull_request"`
	Changes     *PayloadChanges   `json:"changes,omitempty"`
	Repository  PayloadRepository `json:"repository"`
	Sender      PayloadUser       `json:"sender"`
}

// ReviewPayload is the payload for pull_request_review events.
type ReviewPayload struct {
	Action      string         `json:"action"`
	Review      RawReview      `json:"review"`
	PullRequest RawPullRequest `json:"pull_request"`
}

// PushPayload is the payload for push events. Commits may carry either `id`
// (push payload convention) or `sha`; both are tolerated.
type PushPayload struct {
	Ref     string      `json:"ref"`
	Commits []RawCommit `json:"commits"`
}

// IssueCommentPayload is the payload for issue_comment events.
type IssueCommentPayload struct {
	Action  string         `json:"action"`
	Issue   RawIssue       `json:"issue"`
	Comment PayloadComment `json:"comment"`
}

// RawPullRequest mirrors the platform's pull request object.
type RawPullRequest struct {
	Number    int           `json:"number"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	State     string        `json:"state"`
	Draft     bool          `json:"draft"`
	Merged    bool          `json:"merged"`
	MergedAt  *string       `json:"merged_at"`
	UpdatedAt string        `json:"updated_at"`
	Head      PayloadBranch `json:"head"`
	Base      PayloadBranch `json:"base"`
	User      PayloadUser   `json:"user"`
	Mergeable *bool         `json:"mergeable"`
}

// RawReview mirrors the platform's review object.
type RawReview struct {
	ID          int64       `json:"id"`
	State       string      `json:"state"`
	User        PayloadUser `json:"user"`
	DismissedAt *string     `json:"dismissed_at"`
}

// RawCommit is one commit of a push payload.
type RawCommit struct {
	ID      string `json:"id"`
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// RawIssue mirrors the platform's issue object. PullRequest is non-nil only
// when the issue is actually a pull request.
type RawIssue struct {
	Number      int         `json:"number"`
	PullRequest *IssuePRRef `json:"pull_request"`
	User        PayloadUser `json:"user"`
}

// IssuePRRef marks an issue as being a pull request.
type IssuePRRef struct {
	URL string `json:"url"`
}

// PayloadChanges reports which PR fields an edited event touched.
type PayloadChanges struct {
	Title *struct {
		From string `json:"from"`
	} `json:"title,omitempty"`
}

// PayloadComment is the comment object of an issue_comment payload.
type PayloadComment struct {
	ID   int64       `json:"id"`
	Body string      `json:"body"`
	User PayloadUser `json:"user"`
}

// PayloadBranch is a PR head/base reference.
type PayloadBranch struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// PayloadUser is a platform account reference.
type PayloadUser struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// PayloadRepository identifies the repository an event belongs to.
type PayloadRepository struct {
	Name     string      `json:"name"`
	FullName string      `json:"full_name"`
	Owner    PayloadUser `json:"owner"`
}
