package engine

import (
	"strings"

	"github.com/prlabeler/internal/labels"
)

// Classify runs the additive content pass: it returns every content label
// whose trigger phrases occur in the lower-cased title+body text. It never
// proposes removals; that asymmetry belongs to the validating pass, which is
// only safe for labels this table owns.
func Classify(title, body string) []labels.Label {
	text := classifierText(title, body)

	var matched []labels.Label
	for _, rule := range labels.ContentRules {
		if rule.Matches(text) {
			matched = append(matched, rule.Label)
		}
	}
	return matched
}

// StaleContentLabels returns the subset of current that the classifier owns
// but whose triggers no longer hold in the new text. Labels outside the rule
// table are never reported, no matter how they got onto the PR.
func StaleContentLabels(title, body string, current []labels.Label) []labels.Label {
	text := classifierText(title, body)

	var stale []labels.Label
	for _, l := range current {
		rule, ok := labels.RuleFor(l)
		if !ok {
			continue
		}
		if !rule.Matches(text) {
			stale = append(stale, l)
		}
	}
	return stale
}

func classifierText(title, body string) string {
	return strings.ToLower(title) + " " + strings.ToLower(body)
}
