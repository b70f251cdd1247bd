package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/syncgo/internal/journal"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string
	User       string

	// Logger is set up by the root command's pre-run. Subcommands built on
	// their own (tests) fall back to a discard logger.
	Logger *slog.Logger

	// JournalOptions are appended when the journal is built (for testing).
	JournalOptions []journal.Option

	level *slog.LevelVar
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the syncgo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "syncgo",
		Short: "syncgo - a synchronicity journal",
		Long: `Log meaningful coincidences, earn points and streaks for keeping the
habit, and share the signs you notice with the community.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.setupLogging(cmd.ErrOrStderr())
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().StringVarP(&opts.User, "user", "u", "", "acting user id")

	// Add subcommands
	cmd.AddCommand(NewSignupCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewEntriesCommand(opts))
	cmd.AddCommand(NewPatternsCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewFeedCommand(opts))
	cmd.AddCommand(NewReactCommand(opts))
	cmd.AddCommand(NewTrendsCommand(opts))
	cmd.AddCommand(NewMapCommand(opts))
	cmd.AddCommand(NewTagsCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setupLogging installs a text logger on w. The level is Debug with
// --verbose; otherwise it follows the config once a session is opened.
func (o *RootOptions) setupLogging(w io.Writer) {
	o.level = new(slog.LevelVar)
	if o.Verbose {
		o.level.Set(slog.LevelDebug)
	}
	o.Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: o.level}))
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// requireUser returns the trimmed --user value or a command error.
func (o *RootOptions) requireUser() (string, error) {
	user := strings.TrimSpace(o.User)
	if user == "" {
		return "", NewExitError(ExitCommandError, "--user is required")
	}
	return user, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
