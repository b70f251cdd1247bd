package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/syncgo/internal/insights"
	"github.com/roach88/syncgo/internal/model"
	"github.com/roach88/syncgo/internal/store"
)

func submit(t *testing.T, f fixture, in SubmitInput) model.Event {
	t.Helper()
	res, err := f.svc.Submit(context.Background(), in)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	return res.Event
}

func TestFeed_SharedOnlyWithReactions(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")
	f.signup(t, "bob")
	ctx := context.Background()

	shared := submit(t, f, SubmitInput{UserID: "alice", Title: "Crow", Description: "d", Tags: []string{"crow"}, Visibility: "shared"})
	submit(t, f, SubmitInput{UserID: "alice", Title: "Secret", Description: "d", Tags: []string{"crow"}, Visibility: "private"})
	other := submit(t, f, SubmitInput{UserID: "bob", Title: "Owl", Description: "d", Tags: []string{"owl"}, Visibility: "shared"})

	_, err := f.svc.ToggleReaction(ctx, "bob", shared.ID, "✨")
	require.NoError(t, err)

	items, err := f.svc.Feed(ctx, "bob", "", 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, other.ID, items[0].Event.ID)
	assert.Equal(t, shared.ID, items[1].Event.ID)
	assert.Equal(t, "Name alice", items[1].Event.DisplayName)

	require.Len(t, items[1].Reactions, 3)
	assert.Equal(t, model.ReactionSummary{Emoji: "✨", Count: 1, UserReacted: true}, items[1].Reactions[1])

	crows, err := f.svc.Feed(ctx, "alice", "#Crow", 0)
	require.NoError(t, err)
	require.Len(t, crows, 1)
	assert.Equal(t, shared.ID, crows[0].Event.ID)
	assert.False(t, crows[0].Reactions[1].UserReacted, "alice did not react")

	_, err = f.svc.Feed(ctx, "alice", "bad tag!", 0)
	assert.True(t, IsValidationError(err))
}

func TestToggleReaction(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")
	f.signup(t, "bob")
	ctx := context.Background()

	shared := submit(t, f, SubmitInput{UserID: "alice", Title: "t", Description: "d", Visibility: "shared"})
	private := submit(t, f, SubmitInput{UserID: "alice", Title: "t", Description: "d", Visibility: "private"})

	res, err := f.svc.ToggleReaction(ctx, "bob", shared.ID, "❤️")
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.Equal(t, 1, res.Reactions[0].Count)

	res, err = f.svc.ToggleReaction(ctx, "bob", shared.ID, "❤️")
	require.NoError(t, err)
	assert.False(t, res.Added)
	assert.Equal(t, 0, res.Reactions[0].Count)

	_, err = f.svc.ToggleReaction(ctx, "bob", shared.ID, "👍")
	assert.True(t, IsValidationError(err))

	_, err = f.svc.ToggleReaction(ctx, "bob", private.ID, "✨")
	assert.True(t, errors.Is(err, ErrEventHidden), "got %v", err)

	res, err = f.svc.ToggleReaction(ctx, "alice", private.ID, "✨")
	require.NoError(t, err)
	assert.True(t, res.Added)

	_, err = f.svc.ToggleReaction(ctx, "bob", "missing", "✨")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestTrends(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")
	f.signup(t, "bob")
	ctx := context.Background()

	submit(t, f, SubmitInput{UserID: "alice", Title: "a", Description: "d", Tags: []string{"crow", "1111"}, Visibility: "shared"})
	submit(t, f, SubmitInput{UserID: "bob", Title: "b", Description: "d", Tags: []string{"crow"}, Visibility: "shared"})
	last := submit(t, f, SubmitInput{UserID: "bob", Title: "c", Description: "d", Tags: []string{"mirror"}, Visibility: "private"})

	report, err := f.svc.Trends(ctx)
	require.NoError(t, err)

	require.Len(t, report.Tags, 2)
	assert.Equal(t, "crow", report.Tags[0].Tag)
	assert.Equal(t, 2, report.Tags[0].UsageCount)
	assert.Equal(t, 2, report.Tags[0].UniqueUsers)
	assert.Equal(t, "1111", report.Tags[1].Tag)

	require.Len(t, report.Recent, 2)
	assert.NotEqual(t, last.ID, report.Recent[0].ID)
	assert.Equal(t, "b", report.Recent[0].Title)

	assert.Equal(t, model.CommunityStats{SharedEvents: 2, SharingUsers: 2}, report.Stats)
}

func TestMapEntries(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")
	f.signup(t, "bob")
	ctx := context.Background()

	mine := submit(t, f, SubmitInput{UserID: "alice", Title: "a", Description: "d", Location: "Home", Visibility: "private"})
	theirs := submit(t, f, SubmitInput{UserID: "bob", Title: "b", Description: "d", Location: "Park", Visibility: "shared"})
	submit(t, f, SubmitInput{UserID: "bob", Title: "c", Description: "d", Location: "Office", Visibility: "private"})
	submit(t, f, SubmitInput{UserID: "alice", Title: "d", Description: "d", Visibility: "shared"})

	events, err := f.svc.MapEntries(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, theirs.ID, events[0].ID)
	assert.Equal(t, mine.ID, events[1].ID)
}

func TestEntriesAndPatterns(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")
	ctx := context.Background()

	submit(t, f, SubmitInput{UserID: "alice", Title: "Crow", Description: "d", Tags: []string{"crow", "signs"}})
	submit(t, f, SubmitInput{UserID: "alice", Title: "crow", Description: "d", Tags: []string{"crow"}})
	submit(t, f, SubmitInput{UserID: "alice", Title: "Owl", Description: "d", Tags: []string{"owl"}})

	all, err := f.svc.Entries(ctx, "alice", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Owl", all[0].Title)

	crows, err := f.svc.Entries(ctx, "alice", "#CROW")
	require.NoError(t, err)
	assert.Len(t, crows, 2)

	p, err := f.svc.Patterns(ctx, "alice", "")
	require.NoError(t, err)
	require.NotEmpty(t, p.TopTags)
	assert.Equal(t, insights.Count{Label: "crow", Count: 2}, p.TopTags[0])
	require.Len(t, p.RepeatedSigns, 1)
	assert.Equal(t, 2, p.RepeatedSigns[0].Count)
	assert.Empty(t, p.CustomTags)
}

func TestPatterns_TagFilterAndCustomTags(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")
	ctx := context.Background()

	submit(t, f, SubmitInput{UserID: "alice", Title: "Porch", Description: "d", Tags: []string{"owl", "porchlight"}})
	submit(t, f, SubmitInput{UserID: "alice", Title: "porch", Description: "d", Tags: []string{"owl"}})
	submit(t, f, SubmitInput{UserID: "alice", Title: "Crow", Description: "d", Tags: []string{"crow", "grandma"}})

	p, err := f.svc.Patterns(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"grandma", "porchlight"}, p.CustomTags)

	p, err = f.svc.Patterns(ctx, "alice", "#OWL")
	require.NoError(t, err)
	assert.Equal(t, []insights.Count{{Label: "owl", Count: 2}, {Label: "porchlight", Count: 1}}, p.TopTags)
	assert.Equal(t, []insights.Count{{Label: "porch", Count: 2}}, p.RepeatedSigns)
	assert.Equal(t, []string{"porchlight"}, p.CustomTags)

	_, err = f.svc.Patterns(ctx, "alice", "#!")
	assert.True(t, IsValidationError(err), "got %v", err)
}
