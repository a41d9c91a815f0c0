package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"faunatodo/internal/config"
	"faunatodo/internal/exitcode"
	"faunatodo/internal/service"
	"faunatodo/internal/tui"
)

func init() {
	Register(&TuiCmd{})
}

// TuiCmd implements the tui command.
type TuiCmd struct{}

func (c *TuiCmd) Name() string       { return "tui" }
func (c *TuiCmd) Aliases() []string  { return nil }
func (c *TuiCmd) Synopsis() string   { return "Browse and edit tasks interactively" }
func (c *TuiCmd) Usage() string      { return "faunatodo tui" }
func (c *TuiCmd) NeedsBackend() bool { return true }

func (c *TuiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TuiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := tui.Run(ctx, svc, os.Stdin, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
