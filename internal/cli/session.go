package cli

import (
	"log/slog"

	"github.com/roach88/syncgo/internal/config"
	"github.com/roach88/syncgo/internal/journal"
	"github.com/roach88/syncgo/internal/store"
)

// session is an opened database and the journal built on it.
type session struct {
	cfg     *config.Config
	store   *store.Store
	journal *journal.Service
	logger  *slog.Logger
}

// openSession loads configuration, opens the database and builds the journal.
// Errors are returned as command errors.
func openSession(opts *RootOptions) (*session, error) {
	logger := opts.logger()

	cfg, err := config.NewLoader(logger).Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database.Path = opts.Database
	}
	if !opts.Verbose && opts.level != nil {
		opts.level.Set(cfg.SlogLevel())
	}

	rules, err := cfg.Rules()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load gamification rules", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid timezone", err)
	}

	logger.Debug("opening database", "path", cfg.Database.Path)
	st, err := store.Open(cfg.Database.Path, store.WithLevelRule(rules.Level))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	jopts := append([]journal.Option{
		journal.WithLocation(loc),
		journal.WithLogger(logger),
	}, opts.JournalOptions...)

	return &session{
		cfg:     cfg,
		store:   st,
		journal: journal.New(st, rules, jopts...),
		logger:  logger,
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}
