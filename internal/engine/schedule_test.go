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

func scheduleEvent() event.Event {
	return event.Event{Kind: event.KindSchedule, Schedule: &event.ScheduledTick{}}
}

func TestSchedule_AbandonedMarking(t *testing.T) {
	lookup := newFakeLookup()
	lookup.open = []models.PullRequest{
		{Number: 1, UpdatedAt: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)}, // 47 days stale
		{Number: 2, UpdatedAt: time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC)}, // 5 days
	}
	e := newTestEngine(lookup, Options{AbandonedDays: 30})

	effects := e.Route(context.Background(), scheduleEvent())

	assert.Equal(t, []string{"add:" + string(labels.Abandoned)}, labelEffects(effects))

	var comments []Effect
	for _, ef := range effects {
		if ef.Kind == EffectComment {
			comments = append(comments, ef)
		}
	}
	require.Len(t, comments, 1)
	assert.Equal(t, 1, comments[0].PR)
	assert.Contains(t, comments[0].Body, "inactive for 30 days")
}

func TestSchedule_ExactThresholdNotAbandoned(t *testing.T) {
	lookup := newFakeLookup()
	// Updated exactly at the cutoff instant; Before(cutoff) is false.
	lookup.open = []models.PullRequest{
		{Number: 1, UpdatedAt: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)},
	}
	e := newTestEngine(lookup, Options{AbandonedDays: 30})

	assert.Empty(t, e.Route(context.Background(), scheduleEvent()))
}

func TestSchedule_ConflictReconciliation(t *testing.T) {
	yes, no := true, false
	lookup := newFakeLookup()
	lookup.open = []models.PullRequest{{Number: 1}, {Number: 2}, {Number: 3}}
	lookup.prs[1] = models.PullRequest{Number: 1, Mergeable: &no}
	lookup.prs[2] = models.PullRequest{Number: 2, Mergeable: &yes}
	lookup.prs[3] = models.PullRequest{Number: 3} // still computing

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := range lookup.open {
		lookup.open[i].UpdatedAt = now
	}

	e := newTestEngine(lookup, Options{AbandonedDays: 30, CheckConflicts: true})

	effects := e.Route(context.Background(), scheduleEvent())

	assert.ElementsMatch(t, []string{
		"add:" + string(labels.MergeConflict),    // PR 1 has conflicts
		"remove:" + string(labels.MergeConflict), // PR 2 is clean
	}, labelEffects(effects))
}

func TestSchedule_ConflictsDisabled(t *testing.T) {
	no := false
	lookup := newFakeLookup()
	lookup.open = []models.PullRequest{{Number: 1, UpdatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}}
	lookup.prs[1] = models.PullRequest{Number: 1, Mergeable: &no}
	e := newTestEngine(lookup, Options{AbandonedDays: 30})

	assert.Empty(t, e.Route(context.Background(), scheduleEvent()))
	assert.Zero(t, lookup.called("GetPullRequest"))
}
