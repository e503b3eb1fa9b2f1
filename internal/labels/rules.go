package labels

import "strings"

// Rule binds a content label to the phrases that trigger it. The same table
// drives both the additive pass on PR open and the validating pass on title
// edits, so the two modes can never disagree about what a label means.
type Rule struct {
	Label    Label
	Triggers []string
}

// ContentRules lists every label the classifier is allowed to add or remove
// on its own. Human-applied labels outside this table are never touched.
var ContentRules = []Rule{
	{BreakingChange, []string{"breaking change", "breaking:", "[breaking]"}},
	{Documentation, []string{"docs:", "documentation", "readme", "doc/"}},
	{Refactor, []string{"refactor:", "refactoring", "cleanup", "restructure"}},
	{Performance, []string{"perf:", "performance", "optimize", "optimization"}},
	{Security, []string{"security:", "security", "vulnerability", "cve-", "auth", "permission"}},
	{Urgent, []string{"urgent", "asap", "critical", "emergency"}},
}

// Matches reports whether any trigger phrase occurs in text. Callers are
// expected to pass already lower-cased text.
func (r Rule) Matches(text string) bool {
	for _, trigger := range r.Triggers {
		if strings.Contains(text, trigger) {
			return true
		}
	}
	return false
}

// RuleFor returns the content rule governing a label, if any.
func RuleFor(l Label) (Rule, bool) {
	for _, r := range ContentRules {
		if r.Label == l {
			return r, true
		}
	}
	return Rule{}, false
}
