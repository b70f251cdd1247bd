package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/syncgo/internal/api"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal over HTTP",
		Long: `Start the JSON API. Requests identify the acting user with the
X-User-ID header.

Example:
  syncgo serve --db ./syncgo.db --addr :8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	addr := s.cfg.Server.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	apiCfg := api.Config{
		Addr:         addr,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	if opts.Verbose {
		apiCfg.AccessLog = cmd.ErrOrStderr()
	}
	srv := api.NewServer(apiCfg, s.journal, s.logger)

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s. Press Ctrl-C to stop.\n", addr)

	if err := srv.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}
