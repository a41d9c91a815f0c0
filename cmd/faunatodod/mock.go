package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"faunatodo/internal/backend/memfauna"
	"faunatodo/internal/logging"
)

const mockShutdownTimeout = 5 * time.Second

func mockCmd(flags *rootFlags) *cobra.Command {
	var (
		addr   string
		secret string
		seed   []string
	)
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve an in-memory Fauna GraphQL endpoint for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), flags.debug)

			var opts []memfauna.Option
			if secret != "" {
				opts = append(opts, memfauna.WithSecret(secret))
			}
			mem, err := memfauna.New(opts...)
			if err != nil {
				return err
			}
			mem.Seed(seed...)

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			logger.Info("mock fauna listening", "endpoint", "http://"+ln.Addr().String(), "tasks", len(seed))
			return serveListener(cmd.Context(), ln, mem, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8443", "listen address")
	cmd.Flags().StringVar(&secret, "secret", "", "require this bearer secret")
	cmd.Flags().StringSliceVar(&seed, "seed", nil, "task titles to start with")
	return cmd
}

// serveListener serves h on ln until ctx is done.
func serveListener(ctx context.Context, ln net.Listener, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), mockShutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
