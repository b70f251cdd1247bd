package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/syncgo/internal/journal"
)

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your profile",
	}

	cmd.AddCommand(newProfileShowCommand(rootOpts))
	cmd.AddCommand(newProfileUpdateCommand(rootOpts))
	cmd.AddCommand(newProfileAwardsCommand(rootOpts))

	return cmd
}

func newProfileShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show points, level, streak and entry counts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.requireUser()
			if err != nil {
				return err
			}
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := opts.formatter(cmd)
			view, err := s.journal.Profile(cmd.Context(), user)
			if err != nil {
				return out.Fail("show profile failed", err)
			}
			return out.Success(view, func(w io.Writer) {
				p := view.Profile
				fmt.Fprintf(w, "%s (%s)\n", p.DisplayName, p.ID)
				fmt.Fprintf(w, "  Points:   %d\n", p.Points)
				fmt.Fprintf(w, "  Level:    %d\n", p.Level)
				fmt.Fprintf(w, "  Streak:   %d days\n", p.StreakDays)
				if p.LastLogDate != nil {
					fmt.Fprintf(w, "  Last log: %s\n", p.LastLogDate)
				}
				fmt.Fprintf(w, "  Entries:  %d (%d shared)\n", view.Counts.Total, view.Counts.Shared)
				fmt.Fprintf(w, "  Sharing:  %s\n", p.DefaultVisibility())
			})
		},
	}
}

// ProfileUpdateOptions holds flags for the profile update command.
type ProfileUpdateOptions struct {
	*RootOptions
	Name  string
	Share bool
}

func newProfileUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileUpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change display name or default sharing",
		Long: `Change the display name or whether new entries are shared by default.
Only the flags given are changed.

Examples:
  syncgo profile update --user alice --name "Alice B."
  syncgo profile update --user alice --share=true`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd journal.ProfileUpdate
			if cmd.Flags().Changed("name") {
				upd.DisplayName = &opts.Name
			}
			if cmd.Flags().Changed("share") {
				upd.ShareByDefault = &opts.Share
			}
			if upd.DisplayName == nil && upd.ShareByDefault == nil {
				return NewExitError(ExitCommandError, "nothing to update: set --name or --share")
			}
			return runProfileUpdate(opts, upd, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new display name")
	cmd.Flags().BoolVar(&opts.Share, "share", false, "share new entries by default")

	return cmd
}

func runProfileUpdate(opts *ProfileUpdateOptions, upd journal.ProfileUpdate, cmd *cobra.Command) error {
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
	p, err := s.journal.UpdateProfile(cmd.Context(), user, upd)
	if err != nil {
		return out.Fail("update profile failed", err)
	}
	return out.Success(p, func(w io.Writer) {
		fmt.Fprintf(w, "Profile updated: %s, new entries %s by default\n", p.DisplayName, p.DefaultVisibility())
	})
}

func newProfileAwardsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "awards",
		Short:         "List every point award, oldest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.requireUser()
			if err != nil {
				return err
			}
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := opts.formatter(cmd)
			awards, err := s.journal.Awards(cmd.Context(), user)
			if err != nil {
				return out.Fail("list awards failed", err)
			}
			return out.Success(awards, func(w io.Writer) {
				if len(awards) == 0 {
					fmt.Fprintln(w, "No awards yet.")
					return
				}
				for _, a := range awards {
					fmt.Fprintf(w, "%s  +%-4d %s\n", a.CreatedAt.Format("2006-01-02 15:04"), a.Points, a.Reason)
				}
			})
		},
	}
}
