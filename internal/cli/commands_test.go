package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/syncgo/internal/journal"
	"github.com/roach88/syncgo/internal/store"
	"github.com/roach88/syncgo/internal/testutil"
)

// cliEnv runs commands against one temporary database on a fixed clock.
type cliEnv struct {
	opts  *RootOptions
	clock *testutil.DeterministicClock
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	clock := testutil.NewDeterministicClock(time.Date(2026, time.March, 1, 11, 11, 0, 0, time.UTC))
	return cliEnv{
		opts: &RootOptions{
			Format:   "text",
			Database: filepath.Join(t.TempDir(), "cli.db"),
			JournalOptions: []journal.Option{
				journal.WithClock(clock),
				journal.WithIDGenerator(testutil.NewSequentialIDGenerator("evt")),
			},
		},
		clock: clock,
	}
}

func (e cliEnv) run(t *testing.T, newCmd func(*RootOptions) *cobra.Command, user string, args ...string) (string, error) {
	t.Helper()
	e.opts.User = user
	buf := &bytes.Buffer{}
	cmd := newCmd(e.opts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func (e cliEnv) mustRun(t *testing.T, newCmd func(*RootOptions) *cobra.Command, user string, args ...string) string {
	t.Helper()
	out, err := e.run(t, newCmd, user, args...)
	require.NoError(t, err, out)
	return out
}

func (e cliEnv) runJSON(t *testing.T, newCmd func(*RootOptions) *cobra.Command, user string, out interface{}, args ...string) error {
	t.Helper()
	e.opts.Format = "json"
	defer func() { e.opts.Format = "text" }()

	raw, err := e.run(t, newCmd, user, args...)
	require.NoError(t, json.Unmarshal([]byte(raw), out), raw)
	return err
}

func TestSignupCommand(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, NewSignupCommand, "alice", "--name", "Alice")
	assert.Contains(t, out, `Welcome, Alice! Profile "alice" created.`)
	assert.Contains(t, out, "0 points, level 1, 0-day streak")

	_, err := env.run(t, NewSignupCommand, "alice", "--name", "Alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrProfileExists)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = env.run(t, NewSignupCommand, "", "--name", "Nobody")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--user is required")

	_, err = env.run(t, NewSignupCommand, "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestLogCommand(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, NewSignupCommand, "alice", "--name", "Alice")

	out := env.mustRun(t, NewLogCommand, "alice",
		"--title", "Clock", "--description", "Saw 11:11", "--tag", "#1111", "--tag", "owl")
	assert.Contains(t, out, `Logged "Clock" (evt-0001)`)
	assert.Contains(t, out, "+40  Special timing: 11:11 + divine hashtag")
	assert.Contains(t, out, "40 points, level 1, 1-day streak")

	var resp struct {
		Status string
		Data   journal.SubmitResult
	}
	env.clock.Advance(24 * time.Hour)
	err := env.runJSON(t, NewLogCommand, "alice", &resp,
		"--title", "Crow", "--description", "Three crows", "--visibility", "shared", "--at", "2026-03-02T09:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "evt-0002", resp.Data.Event.ID)
	assert.Equal(t, 60, resp.Data.Award.Points)
	assert.Equal(t, 2, resp.Data.Profile.StreakDays)
	assert.Equal(t, 100, resp.Data.Profile.Points)
	assert.Equal(t, 2, resp.Data.Profile.Level)
	assert.Equal(t, "Alice", resp.Data.Event.DisplayName)
}

func TestLogCommandErrors(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, NewSignupCommand, "alice", "--name", "Alice")

	var resp CLIResponse
	err := env.runJSON(t, NewLogCommand, "alice", &resp, "--description", "no title")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalid, resp.Error.Code)
	assert.Equal(t, map[string]interface{}{"field": "title"}, resp.Error.Details)

	_, err = env.run(t, NewLogCommand, "alice", "--title", "t", "--description", "d", "--at", "yesterday")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid --at")

	_, err = env.run(t, NewLogCommand, "ghost", "--title", "t", "--description", "d")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestEntriesAndPatternsCommands(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, NewSignupCommand, "alice", "--name", "Alice")

	out := env.mustRun(t, NewEntriesCommand, "alice")
	assert.Contains(t, out, "No entries yet.")

	env.clock.Advance(time.Minute)
	env.mustRun(t, NewLogCommand, "alice", "--title", "Owl", "--description", "d", "-t", "owl", "--location", "Portland")
	env.clock.Advance(time.Minute)
	env.mustRun(t, NewLogCommand, "alice", "--title", "owl", "--description", "d", "-t", "owl", "-t", "mirror")

	out = env.mustRun(t, NewEntriesCommand, "alice", "--tag", "mirror")
	assert.Contains(t, out, "evt-0002")
	assert.NotContains(t, out, "evt-0001")
	assert.Contains(t, out, "#owl #mirror")

	out = env.mustRun(t, NewEntriesCommand, "alice")
	assert.Contains(t, out, "at Portland")

	_, err := env.run(t, NewEntriesCommand, "alice", "--tag", "not valid")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out = env.mustRun(t, NewPatternsCommand, "alice")
	assert.Contains(t, out, "Top tags:\n  #owl  2\n  #mirror  1\n")
	assert.Contains(t, out, "Repeated signs:\n")
	assert.Contains(t, out, "  2\n")
	assert.NotContains(t, out, "Your own tags:")

	env.clock.Advance(time.Minute)
	env.mustRun(t, NewLogCommand, "alice", "--title", "Porch", "--description", "d", "-t", "porchlight", "-t", "mirror")

	out = env.mustRun(t, NewPatternsCommand, "alice", "--tag", "#Mirror")
	assert.Contains(t, out, "Top tags:\n  #mirror  2\n  #owl  1\n  #porchlight  1\n")
	assert.Contains(t, out, "Your own tags:\n  #porchlight\n")

	_, err = env.run(t, NewPatternsCommand, "alice", "--tag", "!!")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestProfileCommands(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, NewSignupCommand, "alice", "--name", "Alice")
	env.mustRun(t, NewLogCommand, "alice", "--title", "Clock", "--description", "d")

	out := env.mustRun(t, NewProfileCommand, "alice", "show")
	assert.Contains(t, out, "Alice (alice)")
	assert.Contains(t, out, "Points:   25")
	assert.Contains(t, out, "Last log: 2026-03-01")
	assert.Contains(t, out, "Entries:  1 (0 shared)")
	assert.Contains(t, out, "Sharing:  private")

	out = env.mustRun(t, NewProfileCommand, "alice", "update", "--share=true", "--name", "Alice B.")
	assert.Contains(t, out, "Profile updated: Alice B., new entries shared by default")

	_, err := env.run(t, NewProfileCommand, "alice", "update")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out = env.mustRun(t, NewProfileCommand, "alice", "awards")
	assert.Contains(t, out, "+25   Special timing: 11:11")

	_, err = env.run(t, NewProfileCommand, "ghost", "show")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCommunityCommands(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, NewSignupCommand, "alice", "--name", "Alice")
	env.mustRun(t, NewSignupCommand, "bob", "--name", "Bob")

	out := env.mustRun(t, NewFeedCommand, "bob")
	assert.Contains(t, out, "Nothing shared yet.")

	env.clock.Advance(time.Hour)
	env.mustRun(t, NewLogCommand, "alice", "--title", "Owl", "--description", "d", "-t", "owl", "--visibility", "shared", "--location", "Salem")
	env.clock.Advance(time.Hour)
	env.mustRun(t, NewLogCommand, "alice", "--title", "Secret", "--description", "d", "--location", "Home")

	out = env.mustRun(t, NewReactCommand, "bob", "evt-0001", "🔮")
	assert.Contains(t, out, "Added 🔮 on evt-0001")
	assert.Contains(t, out, "🔮 1*")

	out = env.mustRun(t, NewFeedCommand, "alice", "--tag", "owl")
	assert.Contains(t, out, "evt-0001")
	assert.Contains(t, out, "by Alice")
	assert.Contains(t, out, "🔮 1\n")

	_, err := env.run(t, NewReactCommand, "bob", "evt-0002", "🔮")
	require.Error(t, err)
	assert.ErrorIs(t, err, journal.ErrEventHidden)

	_, err = env.run(t, NewReactCommand, "bob", "evt-0001", "👍")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out = env.mustRun(t, NewReactCommand, "bob", "evt-0001", "🔮")
	assert.Contains(t, out, "Removed 🔮 on evt-0001")

	_, err = env.run(t, NewFeedCommand, "bob", "--limit", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out = env.mustRun(t, NewTrendsCommand, "")
	assert.Contains(t, out, "1 shared entries from 1 people")
	assert.Contains(t, out, "#owl")

	out = env.mustRun(t, NewMapCommand, "alice")
	assert.Contains(t, out, "Salem")
	assert.Contains(t, out, "Home")

	out = env.mustRun(t, NewMapCommand, "bob")
	assert.Contains(t, out, "Salem")
	assert.NotContains(t, out, "Home")
}

func TestTagsCommandJSON(t *testing.T) {
	env := newCLIEnv(t)

	var resp struct {
		Status string
		Data   CatalogView
	}
	require.NoError(t, env.runJSON(t, NewTagsCommand, "", &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"❤️", "✨", "🔮"}, resp.Data.Reactions)
	assert.Equal(t, "1111", resp.Data.Tags[0])
	assert.Len(t, resp.Data.Categories, 6)
}

func TestOpenSessionBadConfig(t *testing.T) {
	opts := &RootOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := openSession(opts)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, "failed to load config", exitErr.Message)
}
