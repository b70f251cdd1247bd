package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/syncgo/internal/model"
)

func TestTagTrends(t *testing.T) {
	s := createTestStore(t)
	createTestProfile(t, s, "alice")
	createTestProfile(t, s, "bob")

	createTestEvent(t, s, testEvent("e1", "alice", model.VisibilityShared, testTime(1), "crow", "1111"))
	createTestEvent(t, s, testEvent("e2", "bob", model.VisibilityShared, testTime(2), "crow"))
	createTestEvent(t, s, testEvent("e3", "bob", model.VisibilityShared, testTime(3), "crow", "owl"))
	createTestEvent(t, s, testEvent("e4", "alice", model.VisibilityPrivate, testTime(4), "owl", "owl2"))

	trends, err := s.TagTrends(ctx(), 0)
	require.NoError(t, err)
	require.Len(t, trends, 3)

	assert.Equal(t, "crow", trends[0].Tag)
	assert.Equal(t, 3, trends[0].UsageCount)
	assert.Equal(t, 2, trends[0].UniqueUsers)
	assert.True(t, trends[0].LastUsed.Equal(testTime(3)))

	assert.Equal(t, "1111", trends[1].Tag)
	assert.Equal(t, "owl", trends[2].Tag)
	assert.Equal(t, 1, trends[2].UsageCount)

	limited, err := s.TagTrends(ctx(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCommunityStats(t *testing.T) {
	s := createTestStore(t)
	createTestProfile(t, s, "alice")
	createTestProfile(t, s, "bob")

	st, err := s.CommunityStats(ctx())
	require.NoError(t, err)
	assert.Equal(t, model.CommunityStats{}, st)

	createTestEvent(t, s, testEvent("e1", "alice", model.VisibilityShared, testTime(1)))
	createTestEvent(t, s, testEvent("e2", "alice", model.VisibilityShared, testTime(2)))
	createTestEvent(t, s, testEvent("e3", "bob", model.VisibilityPrivate, testTime(3)))

	st, err = s.CommunityStats(ctx())
	require.NoError(t, err)
	assert.Equal(t, model.CommunityStats{SharedEvents: 2, SharingUsers: 1}, st)
}
