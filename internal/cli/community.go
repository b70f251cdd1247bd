package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/syncgo/internal/model"
)

// FeedOptions holds flags for the feed command.
type FeedOptions struct {
	*RootOptions
	Tag   string
	Limit int
}

// NewFeedCommand creates the feed command.
func NewFeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the community feed",
		Long: `Show shared entries from everyone, newest first, with reactions.

Example:
  syncgo feed --user alice --tag crow --limit 20`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tag, "tag", "", "only entries with this hashtag")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum entries (0 for all)")

	return cmd
}

func runFeed(opts *FeedOptions, cmd *cobra.Command) error {
	user, err := opts.requireUser()
	if err != nil {
		return err
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must be non-negative")
	}

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	out := opts.formatter(cmd)
	items, err := s.journal.Feed(cmd.Context(), user, opts.Tag, opts.Limit)
	if err != nil {
		return out.Fail("feed failed", err)
	}

	return out.Success(items, func(w io.Writer) {
		if len(items) == 0 {
			fmt.Fprintln(w, "Nothing shared yet.")
			return
		}
		for _, item := range items {
			renderEvent(w, item.Event)
			if len(item.Reactions) > 0 {
				fmt.Fprintf(w, "    %s\n", formatReactions(item.Reactions))
			}
		}
	})
}

// NewReactCommand creates the react command.
func NewReactCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "react <event-id> <emoji>",
		Short: "Toggle a reaction on an entry",
		Long: `Add a reaction to an entry, or remove it if already given.

Supported reactions are listed by 'syncgo tags'.

Example:
  syncgo react --user bob evt-0001 ✨`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rootOpts.requireUser()
			if err != nil {
				return err
			}

			s, err := openSession(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := rootOpts.formatter(cmd)
			res, err := s.journal.ToggleReaction(cmd.Context(), user, args[0], args[1])
			if err != nil {
				return out.Fail("react failed", err)
			}
			return out.Success(res, func(w io.Writer) {
				verb := "Removed"
				if res.Added {
					verb = "Added"
				}
				fmt.Fprintf(w, "%s %s on %s\n", verb, res.Emoji, res.EventID)
				if len(res.Reactions) > 0 {
					fmt.Fprintf(w, "  %s\n", formatReactions(res.Reactions))
				}
			})
		},
	}
}

// NewTrendsCommand creates the trends command.
func NewTrendsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trends",
		Short: "Show trending hashtags and recent shared entries",
		Long: `Show the most used hashtags across shared entries, the latest shared
entries and overall community counts.

Example:
  syncgo trends --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := rootOpts.formatter(cmd)
			report, err := s.journal.Trends(cmd.Context())
			if err != nil {
				return out.Fail("trends failed", err)
			}
			return out.Success(report, func(w io.Writer) {
				fmt.Fprintf(w, "%d shared entries from %d people\n\n", report.Stats.SharedEvents, report.Stats.SharingUsers)
				fmt.Fprintln(w, "Trending:")
				if len(report.Tags) == 0 {
					fmt.Fprintln(w, "  (none)")
				}
				for _, t := range report.Tags {
					fmt.Fprintf(w, "  #%-20s %3d uses  %3d people\n", t.Tag, t.UsageCount, t.UniqueUsers)
				}
				fmt.Fprintln(w)
				fmt.Fprintln(w, "Recent:")
				for _, e := range report.Recent {
					renderEvent(w, e)
				}
			})
		},
	}
}

// NewMapCommand creates the map command.
func NewMapCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "List entries that have a location",
		Long: `List entries with a location that the acting user can see: their own
entries and everything shared.

Example:
  syncgo map --user alice`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rootOpts.requireUser()
			if err != nil {
				return err
			}

			s, err := openSession(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := rootOpts.formatter(cmd)
			events, err := s.journal.MapEntries(cmd.Context(), user)
			if err != nil {
				return out.Fail("map failed", err)
			}
			return out.Success(events, func(w io.Writer) {
				if len(events) == 0 {
					fmt.Fprintln(w, "No located entries.")
					return
				}
				for _, e := range events {
					fmt.Fprintf(w, "%-24s %s  %s\n", e.Location, e.ID, e.Title)
				}
			})
		},
	}
}

func formatReactions(summaries []model.ReactionSummary) string {
	parts := make([]string, 0, len(summaries))
	for _, r := range summaries {
		mark := ""
		if r.UserReacted {
			mark = "*"
		}
		parts = append(parts, fmt.Sprintf("%s %d%s", r.Emoji, r.Count, mark))
	}
	return strings.Join(parts, "  ")
}
