package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/syncgo/internal/insights"
	"github.com/roach88/syncgo/internal/journal"
	"github.com/roach88/syncgo/internal/model"
)

// SignupOptions holds flags for the signup command.
type SignupOptions struct {
	*RootOptions
	Name string
}

// NewSignupCommand creates the signup command.
func NewSignupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a profile",
		Long: `Create a journal profile for the acting user.

New profiles start at zero points, level 1, with sharing off.

Example:
  syncgo signup --user alice --name "Alice"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runSignup(opts *SignupOptions, cmd *cobra.Command) error {
	user, err := opts.requireUser()
	if err != nil {
		return err
	}

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	out := opts.formatter(cmd)
	p, err := s.journal.Signup(cmd.Context(), journal.SignupInput{UserID: user, DisplayName: opts.Name})
	if err != nil {
		return out.Fail("signup failed", err)
	}

	return out.Success(p, func(w io.Writer) {
		fmt.Fprintf(w, "Welcome, %s! Profile %q created.\n", p.DisplayName, p.ID)
		renderProfile(w, p)
	})
}

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Title       string
	Description string
	Location    string
	At          string
	Category    string
	Tags        []string
	PhotoURL    string
	Visibility  string
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a synchronicity",
		Long: `Log a synchronicity and collect points.

Every entry earns the daily award. Entries at 11:11, 2:22, 3:33, 4:44 or
5:55 earn the special timing award instead, divine hashtags add a bonus, and
the first shared entry earns a one-time bonus. Logging on consecutive days
builds a streak; reaching seven days pays a milestone bonus.

Visibility defaults to the profile's sharing preference.

Examples:
  syncgo log --user alice --title "Clock" --description "Saw 11:11 again" --tag 1111
  syncgo log --user alice --title "Owl" --description "On the fence" --at 2026-03-01T03:33:00Z --visibility shared`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "short title (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "what happened (required)")
	cmd.Flags().StringVar(&opts.Location, "location", "", "where it happened")
	cmd.Flags().StringVar(&opts.At, "at", "", "when it happened (RFC 3339, default now)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "category (see 'syncgo tags')")
	cmd.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "hashtag (repeatable)")
	cmd.Flags().StringVar(&opts.PhotoURL, "photo", "", "photo URL")
	cmd.Flags().StringVar(&opts.Visibility, "visibility", "", "private or shared")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	user, err := opts.requireUser()
	if err != nil {
		return err
	}

	in := journal.SubmitInput{
		UserID:      user,
		Title:       opts.Title,
		Description: opts.Description,
		Location:    opts.Location,
		Category:    opts.Category,
		Tags:        opts.Tags,
		PhotoURL:    opts.PhotoURL,
		Visibility:  opts.Visibility,
	}
	if opts.At != "" {
		at, err := time.Parse(time.RFC3339, opts.At)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --at", err)
		}
		in.OccurredAt = &at
	}

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	out := opts.formatter(cmd)
	res, err := s.journal.Submit(cmd.Context(), in)
	if err != nil {
		return out.Fail("log failed", err)
	}
	out.VerboseLog("event %s stored", res.Event.ID)

	return out.Success(res, func(w io.Writer) {
		fmt.Fprintf(w, "Logged %q (%s)\n", res.Event.Title, res.Event.ID)
		fmt.Fprintf(w, "  +%d  %s\n", res.Award.Points, res.Award.Reason)
		if res.Milestone != nil {
			fmt.Fprintf(w, "  +%d  %s\n", res.Milestone.Points, res.Milestone.Reason)
		}
		renderProfile(w, res.Profile)
	})
}

// EntriesOptions holds flags for the entries command.
type EntriesOptions struct {
	*RootOptions
	Tag string
}

// NewEntriesCommand creates the entries command.
func NewEntriesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EntriesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List your own entries",
		Long: `List the acting user's entries, newest first.

Example:
  syncgo entries --user alice --tag owl`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntries(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tag, "tag", "", "only entries with this hashtag")

	return cmd
}

func runEntries(opts *EntriesOptions, cmd *cobra.Command) error {
	user, err := opts.requireUser()
	if err != nil {
		return err
	}

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	out := opts.formatter(cmd)
	events, err := s.journal.Entries(cmd.Context(), user, opts.Tag)
	if err != nil {
		return out.Fail("list entries failed", err)
	}

	return out.Success(events, func(w io.Writer) {
		if len(events) == 0 {
			fmt.Fprintln(w, "No entries yet.")
			return
		}
		for _, e := range events {
			renderEvent(w, e)
		}
	})
}

// PatternsOptions holds options for the patterns command.
type PatternsOptions struct {
	*RootOptions
	Tag string
}

// NewPatternsCommand creates the patterns command.
func NewPatternsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PatternsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Show your most used tags and repeated signs",
		Long: `Summarize the acting user's entries: the five most used hashtags, the
titles that came up more than once and the hashtags outside the suggested
list. --tag narrows the summary to entries with that hashtag.

Example:
  syncgo patterns --user alice --tag owl`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatterns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tag, "tag", "", "only entries with this hashtag")

	return cmd
}

func runPatterns(opts *PatternsOptions, cmd *cobra.Command) error {
	user, err := opts.requireUser()
	if err != nil {
		return err
	}

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	out := opts.formatter(cmd)
	p, err := s.journal.Patterns(cmd.Context(), user, opts.Tag)
	if err != nil {
		return out.Fail("patterns failed", err)
	}

	return out.Success(p, func(w io.Writer) {
		renderCounts(w, "Top tags", p.TopTags, "#")
		renderCounts(w, "Repeated signs", p.RepeatedSigns, "")
		if len(p.CustomTags) > 0 {
			fmt.Fprintln(w, "Your own tags:")
			for _, t := range p.CustomTags {
				fmt.Fprintf(w, "  #%s\n", t)
			}
		}
	})
}

func renderProfile(w io.Writer, p model.Profile) {
	fmt.Fprintf(w, "  %s: %d points, level %d, %d-day streak\n", p.DisplayName, p.Points, p.Level, p.StreakDays)
}

func renderEvent(w io.Writer, e model.Event) {
	fmt.Fprintf(w, "%s  %s  %s [%s]\n", e.OccurredAt.Format("2006-01-02 15:04"), e.ID, e.Title, e.Visibility)
	if e.DisplayName != "" {
		fmt.Fprintf(w, "    by %s\n", e.DisplayName)
	}
	if e.Location != "" {
		fmt.Fprintf(w, "    at %s\n", e.Location)
	}
	if len(e.Tags) > 0 {
		fmt.Fprint(w, "   ")
		for _, t := range e.Tags {
			fmt.Fprintf(w, " #%s", t)
		}
		fmt.Fprintln(w)
	}
}

func renderCounts(w io.Writer, heading string, counts []insights.Count, prefix string) {
	fmt.Fprintf(w, "%s:\n", heading)
	if len(counts) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %s%s  %d\n", prefix, c.Label, c.Count)
	}
}
