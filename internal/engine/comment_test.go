package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prlabeler/internal/event"
	"github.com/prlabeler/internal/labels"
)

func commentEvent(body string) event.Event {
	return event.Event{
		Kind: event.KindComment,
		Comment: &event.CommentEvent{
			Action:      "created",
			IssueNumber: 15,
			IsOnPR:      true,
			Body:        body,
			Author:      "dave",
		},
	}
}

func TestComment_MultipleTriggersFireIndependently(t *testing.T) {
	e := newTestEngine(newFakeLookup(), Options{})

	effects := e.Route(context.Background(), commentEvent("Please !urgent and !security this"))

	assert.ElementsMatch(t, []string{
		"add:" + string(labels.Urgent),
		"add:" + string(labels.Security),
	}, labelEffects(effects))
}

func TestComment_TriggersAreCaseInsensitive(t *testing.T) {
	e := newTestEngine(newFakeLookup(), Options{})

	effects := e.Route(context.Background(), commentEvent("!BREAKING change ahead"))

	assert.Equal(t, []string{"add:" + string(labels.BreakingChange)}, labelEffects(effects))
}

func TestComment_ActionRequiredNotifiesTeam(t *testing.T) {
	e := newTestEngine(newFakeLookup(), Options{TeamID: "platform-team"})

	effects := e.Route(context.Background(), commentEvent("!action_required before merge"))

	assert.Equal(t, []string{"add:" + string(labels.MergeBlockActionRequired)}, labelEffects(effects))

	var comments []string
	for _, ef := range effects {
		if ef.Kind == EffectComment {
			comments = append(comments, ef.Body)
		}
	}
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0], "@platform-team")
	assert.Contains(t, comments[0], "@dave has flagged this PR")
}

func TestComment_ActionRequiredWithoutTeam(t *testing.T) {
	e := newTestEngine(newFakeLookup(), Options{})

	effects := e.Route(context.Background(), commentEvent("!action_required"))

	require.Len(t, effects, 1)
	assert.Equal(t, EffectAddLabel, effects[0].Kind)
}

func TestComment_IgnoredCases(t *testing.T) {
	e := newTestEngine(newFakeLookup(), Options{})

	onIssue := event.Event{
		Kind: event.KindComment,
		Comment: &event.CommentEvent{
			Action:      "created",
			IssueNumber: 3,
			Body:        "!urgent",
		},
	}
	assert.Empty(t, e.Route(context.Background(), onIssue))

	edited := event.Event{
		Kind: event.KindComment,
		Comment: &event.CommentEvent{
			Action:      "edited",
			IssueNumber: 3,
			IsOnPR:      true,
			Body:        "!urgent",
		},
	}
	assert.Empty(t, e.Route(context.Background(), edited))

	noTriggers := e.Route(context.Background(), commentEvent("looks good to me"))
	assert.Empty(t, noTriggers)
}
