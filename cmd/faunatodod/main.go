// Package main is the entry point for faunatodod, the web server and the
// development Fauna stand-in.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"faunatodo/internal/commands"
	"faunatodo/internal/config"
	"faunatodo/internal/exitcode"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configDir string
	debug     bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		cancel()
		os.Exit(exitcode.Code(err))
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "faunatodod",
		Short:         "Serve the faunatodo page and Fauna proxy",
		Version:       commands.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exitcode.New(exitcode.UserError, err)
	})
	root.PersistentFlags().StringVar(&flags.configDir, "config", "", "override config directory")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log at debug level")

	root.AddCommand(serveCmd(flags))
	root.AddCommand(mockCmd(flags))
	root.AddCommand(versionCmd())
	return root
}

// loadConfig reads configuration, tagging failures as config errors.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configDir)
	if err != nil {
		return nil, exitcode.New(exitcode.AuthError, fmt.Errorf("config error: %w", err))
	}
	cfg.Debug = cfg.Debug || flags.debug
	return cfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "faunatodod %s\n", commands.Version)
			return nil
		},
	}
}
