package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prlabeler/internal/labels"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		title string
		body  string
		want  []labels.Label
	}{
		{
			name:  "breaking change in title",
			title: "feat: breaking change to auth flow",
			want:  []labels.Label{labels.BreakingChange, labels.Security},
		},
		{
			name: "documentation in body",
			body: "Updates the README and api docs.",
			want: []labels.Label{labels.Documentation},
		},
		{
			name:  "performance",
			title: "Optimize hot path in parser",
			want:  []labels.Label{labels.Performance},
		},
		{
			name:  "urgent and security",
			title: "URGENT: patch XSS vulnerability",
			want:  []labels.Label{labels.Security, labels.Urgent},
		},
		{
			name:  "no matches",
			title: "Rename internal helper",
			body:  "",
			want:  nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ElementsMatch(t, tc.want, Classify(tc.title, tc.body))
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	upper := Classify("REFACTOR the store layer", "")
	lower := Classify("refactor the store layer", "")
	assert.Equal(t, lower, upper)
	assert.Contains(t, upper, labels.Refactor)
}

func TestStaleContentLabels(t *testing.T) {
	current := []labels.Label{labels.Refactor, labels.Security, labels.ReadyForReview}

	stale := StaleContentLabels("feat: hardening the auth layer", "", current)

	// Refactor no longer matches; Security still does; ReadyForReview is not
	// a content label and is never reported.
	assert.Equal(t, []labels.Label{labels.Refactor}, stale)
}

func TestStaleContentLabels_NeverContradictsClassify(t *testing.T) {
	title, body := "docs: refactor the performance guide", ""

	added := Classify(title, body)
	stale := StaleContentLabels(title, body, added)

	assert.Empty(t, stale)
}
