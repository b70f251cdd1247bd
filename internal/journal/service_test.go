package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/syncgo/internal/gamify"
	"github.com/roach88/syncgo/internal/model"
	"github.com/roach88/syncgo/internal/store"
	"github.com/roach88/syncgo/internal/testutil"
)

// baseTime is a Sunday afternoon, not a special time.
var baseTime = time.Date(2026, time.March, 1, 14, 30, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	store *store.Store
	clock *testutil.DeterministicClock
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	rules := gamify.DefaultRules()
	st, err := store.Open(filepath.Join(t.TempDir(), "journal.db"), store.WithLevelRule(rules.Level))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewDeterministicClock(baseTime)
	opts = append([]Option{
		WithClock(clock),
		WithIDGenerator(testutil.NewSequentialIDGenerator("evt")),
	}, opts...)

	return fixture{svc: New(st, rules, opts...), store: st, clock: clock}
}

func (f fixture) signup(t *testing.T, id string) model.Profile {
	t.Helper()
	p, err := f.svc.Signup(context.Background(), SignupInput{UserID: id, DisplayName: "Name " + id})
	require.NoError(t, err)
	return p
}

func at(hour, minute int) *time.Time {
	t := time.Date(2026, time.March, 1, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestSignup_FreshProfile(t *testing.T) {
	f := newFixture(t)

	p := f.signup(t, "alice")
	assert.Equal(t, "alice", p.ID)
	assert.Equal(t, "Name alice", p.DisplayName)
	assert.Equal(t, 0, p.Points)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.StreakDays)
	assert.Nil(t, p.LastLogDate)
	assert.False(t, p.ShareByDefault)
}

func TestSignup_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")

	_, err := f.svc.Signup(context.Background(), SignupInput{UserID: "alice", DisplayName: "Again"})
	assert.True(t, errors.Is(err, store.ErrProfileExists), "got %v", err)
}

func TestSignup_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Signup(context.Background(), SignupInput{UserID: "", DisplayName: "x"})
	assert.True(t, IsValidationError(err))

	_, err = f.svc.Signup(context.Background(), SignupInput{UserID: "bob", DisplayName: "  "})
	assert.True(t, IsValidationError(err))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")
	ctx := context.Background()

	share := true
	p, err := f.svc.UpdateProfile(ctx, "alice", ProfileUpdate{ShareByDefault: &share})
	require.NoError(t, err)
	assert.True(t, p.ShareByDefault)
	assert.Equal(t, "Name alice", p.DisplayName)

	name := "Alice"
	p, err = f.svc.UpdateProfile(ctx, "alice", ProfileUpdate{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.DisplayName)
	assert.True(t, p.ShareByDefault)

	empty := " "
	_, err = f.svc.UpdateProfile(ctx, "alice", ProfileUpdate{DisplayName: &empty})
	assert.True(t, IsValidationError(err))

	_, err = f.svc.UpdateProfile(ctx, "nobody", ProfileUpdate{DisplayName: &name})
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestProfile_WithCounts(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, SubmitInput{UserID: "alice", Title: "a", Description: "a", Visibility: "shared"})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, SubmitInput{UserID: "alice", Title: "b", Description: "b"})
	require.NoError(t, err)

	view, err := f.svc.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.EventCounts{Total: 2, Shared: 1}, view.Counts)
	assert.Equal(t, 70, view.Profile.Points)
}
