package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"faunatodo/internal/config"
	"faunatodo/internal/exitcode"
	"faunatodo/internal/service"
)

func init() {
	Register(&GoogleLogoutCmd{})
}

// GoogleLogoutCmd implements the google-logout command. Only the stored
// token is removed; the OAuth client file stays.
type GoogleLogoutCmd struct{}

func (c *GoogleLogoutCmd) Name() string       { return "google-logout" }
func (c *GoogleLogoutCmd) Aliases() []string  { return nil }
func (c *GoogleLogoutCmd) Synopsis() string   { return "Remove the stored Google token" }
func (c *GoogleLogoutCmd) Usage() string      { return "faunatodo google-logout [common flags]" }
func (c *GoogleLogoutCmd) NeedsBackend() bool { return false }

func (c *GoogleLogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *GoogleLogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !cfg.HasToken() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if err := cfg.RemoveToken(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
