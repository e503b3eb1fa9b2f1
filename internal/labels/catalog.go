// Package labels defines the closed set of lifecycle labels the agent
// maintains, together with the colors and descriptions used when a label has
// to be created on the repository lazily.
package labels

// Label is the display name of a catalog entry. The name is the identity key
// against the platform; renaming a label is a breaking change.
type Label string

const (
	Draft                    Label = "Status: Draft"
	ReadyForReview           Label = "Status: Ready for review"
	RequestChanges           Label = "Code review: Request Changes"
	InProgress               Label = "Code review: In progress"
	Approved                 Label = "Code review: Approved"
	ReadyForStaging          Label = "Status: Ready for Staging"
	DeployedStaging          Label = "Deployed: Staging"
	DeployedProduction       Label = "Deployed: Production"
	MergeConflict            Label = "Merge Conflict"
	Merged                   Label = "Status: Merged"
	Abandoned                Label = "Status: Abandoned"
	FeatureBase              Label = "Feature: Base"
	FeaturePart              Label = "Feature: Part"
	FixHotfix                Label = "Fix: Hotfix"
	FixBug                   Label = "Fix: Bug"
	MergeBlockActionRequired Label = "Merge Block: Action Required"
	Urgent                   Label = "Priority: Urgent"
	BreakingChange           Label = "Type: Breaking Change"
	Documentation            Label = "Type: Documentation"
	Refactor                 Label = "Type: Refactor"
	Performance              Label = "Type: Performance"
	Security                 Label = "Type: Security"
)

// Spec carries everything needed to create the label on the platform.
type Spec struct {
	Color       string
	Description string
}

var catalog = map[Label]Spec{
	Draft:              {"f9d71c", "Pull request is still being worked on."},
	ReadyForReview:     {"0e8a16", "Ready for code review."},
	RequestChanges:     {"d73a49", "Reviewers have requested changes before merging."},
	InProgress:         {"fbca04", "Review is ongoing and not yet finalized."},
	Approved:           {"0e8a16", "All reviewers have approved the changes."},
	ReadyForStaging:    {"1d76db", "Pull request is ready to be deployed to the staging environment for testing."},
	DeployedStaging:    {"7057ff", "Pull request has been deployed to the staging environment for testing."},
	DeployedProduction: {"28a745", "Pull request has been deployed to the production environment."},
	MergeConflict:      {"d73a49", "Indicates that this pull request has merge conflicts that must be resolved before merging."},
	Merged:             {"6f42c1", "Pull request has been merged."},
	Abandoned:          {"6a737d", "Closed without being merged."},
	FeatureBase:        {"0075ca", "Establishes the initial structure or foundation for a new feature."},
	FeaturePart:        {"0075ca", "Implements a specific part of a larger feature."},
	FixHotfix:          {"d73a49", "Urgent production fix applied directly to the main branch."},
	FixBug:             {"ff6b6b", "Fixes a functional bug or error."},
	MergeBlockActionRequired: {"b60205",
		"Signifies that action or changes are required before this pull request can be merged."},
	Urgent:         {"ff0000", "Requires immediate attention and priority handling."},
	BreakingChange: {"b60205", "Contains breaking changes that may affect existing functionality."},
	Documentation:  {"0075ca", "Pull requests that update documentation, README files, or code comments."},
	Refactor:       {"7057ff", "Code refactoring without changing functionality."},
	Performance:    {"00d4aa", "Improves performance, optimization, or efficiency."},
	Security:       {"ff6b6b", "Addresses security vulnerabilities or implements security improvements."},
}

// Lookup returns the creation spec for a catalog label. Unknown labels get a
// black fallback so lazy creation still succeeds.
func Lookup(l Label) Spec {
	if s, ok := catalog[l]; ok {
		return s
	}
	return Spec{Color: "000000", Description: "Auto-generated label: " + string(l)}
}

// All returns every catalog label in a stable order, used by `labels sync`.
func All() []Label {
	return []Label{
		Draft, ReadyForReview, RequestChanges, InProgress, Approved,
		ReadyForStaging, DeployedStaging, DeployedProduction,
		MergeConflict, Merged, Abandoned,
		FeatureBase, FeaturePart, FixHotfix, FixBug,
		MergeBlockActionRequired, Urgent,
		BreakingChange, Documentation, Refactor, Performance, Security,
	}
}
