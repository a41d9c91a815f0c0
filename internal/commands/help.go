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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "faunatodo help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out, "\nCommands:")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-16s %s\n", DisplayName(cmd), cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  faunatodo                                  List all tasks
  faunatodo list [common flags] [--open]
  faunatodo add [common flags] <title...>
  faunatodo create [common flags] <title...>
  faunatodo done [common flags] <n>
  faunatodo undo [common flags] <n>
  faunatodo rename [common flags] <n> <title...>
  faunatodo rm [common flags] <n>...
  faunatodo tui [common flags]
  faunatodo import-google [common flags] [--list <list-name>] [--dry-run]
  faunatodo google-login [common flags]
  faunatodo google-logout [common flags]
  faunatodo help
  faunatodo version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  FAUNATODO_API_URL   Proxy endpoint (default http://localhost:3000/api/fauna)
  FAUNATODO_TIMEOUT   Per-request timeout, e.g. 10s (default none)
`
