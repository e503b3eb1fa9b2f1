package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prlabeler/internal/event"
	"github.com/prlabeler/internal/labels"
	"github.com/prlabeler/pkg/models"
)

func pushEvent(branch string, commits ...models.Commit) event.Event {
	return event.Event{
		Kind: event.KindPush,
		Push: &event.PushEvent{Branch: branch, Commits: commits},
	}
}

func TestPush_ProductionDeployment(t *testing.T) {
	lookup := newFakeLookup()
	merged := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	lookup.prs[42] = models.PullRequest{Number: 42, State: "closed", MergedAt: &merged}
	e := newTestEngine(lookup, Options{StagingBranch: "develop", ProductionBranch: "main", TeamID: "platform-team"})

	effects := e.Route(context.Background(), pushEvent("main",
		models.Commit{SHA: "abc", Message: "Merge pull request #42 from org/feature-x"}))

	assert.ElementsMatch(t, []string{
		"remove:" + string(labels.ReadyForStaging),
		"remove:" + string(labels.DeployedStaging),
		"add:" + string(labels.DeployedProduction),
	}, labelEffects(effects))

	var comments []string
	for _, ef := range effects {
		if ef.Kind == EffectComment {
			comments = append(comments, ef.Body)
		}
	}
	require.Len(t, comments, 2)
	assert.Contains(t, comments[0], "Your PR #42 has been deployed to production")
	assert.Contains(t, comments[1], "@platform-team")
	assert.Contains(t, comments[1], "Production Deployment")
}

func TestPush_StagingDeployment(t *testing.T) {
	lookup := newFakeLookup()
	merged := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	lookup.prs[42] = models.PullRequest{Number: 42, State: "closed", MergedAt: &merged}
	e := newTestEngine(lookup, Options{StagingBranch: "develop", ProductionBranch: "main", TeamID: "platform-team"})

	effects := e.Route(context.Background(), pushEvent("develop",
		models.Commit{SHA: "abc", Message: "Merge pull request #42 from org/feature-x"}))

	assert.ElementsMatch(t, []string{
		"remove:" + string(labels.ReadyForStaging),
		"add:" + string(labels.DeployedStaging),
	}, labelEffects(effects))

	// Staging deploys are silent.
	for _, ef := range effects {
		assert.NotEqual(t, EffectComment, ef.Kind)
	}
}

func TestPush_NoTeamSkipsTeamNotice(t *testing.T) {
	lookup := newFakeLookup()
	merged := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	lookup.prs[42] = models.PullRequest{Number: 42, State: "closed", MergedAt: &merged}
	e := newTestEngine(lookup, Options{ProductionBranch: "main"})

	effects := e.Route(context.Background(), pushEvent("main",
		models.Commit{SHA: "abc", Message: "Merge pull request #42 from org/feature-x"}))

	comments := 0
	for _, ef := range effects {
		if ef.Kind == EffectComment {
			comments++
		}
	}
	assert.Equal(t, 1, comments)
}

func TestPush_UnmonitoredBranchIgnored(t *testing.T) {
	e := newTestEngine(newFakeLookup(), Options{StagingBranch: "develop", ProductionBranch: "main"})

	effects := e.Route(context.Background(), pushEvent("feature/x",
		models.Commit{SHA: "abc", Message: "Merge pull request #42 from org/feature-x"}))

	assert.Empty(t, effects)
}

func TestPush_EachCommitCorrelatedIndependently(t *testing.T) {
	lookup := newFakeLookup()
	merged := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	lookup.prs[1] = models.PullRequest{Number: 1, State: "closed", MergedAt: &merged}
	lookup.prs[2] = models.PullRequest{Number: 2, State: "closed", MergedAt: &merged}
	e := newTestEngine(lookup, Options{ProductionBranch: "main"})

	effects := e.Route(context.Background(), pushEvent("main",
		models.Commit{SHA: "aaa", Message: "Merge pull request #1 from org/a"},
		models.Commit{SHA: "bbb", Message: "chore: unrelated"},
		models.Commit{SHA: "ccc", Message: "Merge pull request #2 from org/b"}))

	var deployed []int
	for _, ef := range effects {
		if ef.Kind == EffectAddLabel && ef.Label == labels.DeployedProduction {
			deployed = append(deployed, ef.PR)
		}
	}
	assert.ElementsMatch(t, []int{1, 2}, deployed)
}
