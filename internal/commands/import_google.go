package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"faunatodo/internal/backend/googletasks"
	"faunatodo/internal/config"
	"faunatodo/internal/exitcode"
	"faunatodo/internal/output"
	"faunatodo/internal/service"
)

func init() {
	Register(&ImportGoogleCmd{})
}

// GoogleSource is the read side of Google Tasks used by the import.
type GoogleSource interface {
	DefaultList(ctx context.Context) (googletasks.TaskList, error)
	ResolveList(ctx context.Context, name string) (googletasks.TaskList, error)
	OpenTasks(ctx context.Context, listID string) ([]googletasks.Task, error)
}

// ImportGoogleCmd implements the import-google command.
type ImportGoogleCmd struct {
	listName string
	dryRun   bool
	source   GoogleSource
}

// SetListName sets the list name (for testing).
func (c *ImportGoogleCmd) SetListName(name string) {
	c.listName = name
}

// SetDryRun sets dry-run mode (for testing).
func (c *ImportGoogleCmd) SetDryRun(dryRun bool) {
	c.dryRun = dryRun
}

// SetSource replaces the Google client (for testing).
func (c *ImportGoogleCmd) SetSource(src GoogleSource) {
	c.source = src
}

func (c *ImportGoogleCmd) Name() string      { return "import-google" }
func (c *ImportGoogleCmd) Aliases() []string { return nil }
func (c *ImportGoogleCmd) Synopsis() string  { return "Copy open Google Tasks into the list" }
func (c *ImportGoogleCmd) Usage() string {
	return "faunatodo import-google [--list <list-name>] [--dry-run]"
}
func (c *ImportGoogleCmd) NeedsBackend() bool { return true }

func (c *ImportGoogleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.BoolVar(&c.dryRun, "dry-run", false, "")
}

func (c *ImportGoogleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	src := c.source
	if src == nil {
		if !cfg.HasOAuthClient() || !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in to Google (run: faunatodo google-login)")
			return exitcode.AuthError
		}
		client, err := googletasks.New(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: auth error: %v\n", err)
			return exitcode.AuthError
		}
		src = client
	}

	var list googletasks.TaskList
	var err error
	if strings.TrimSpace(c.listName) != "" {
		list, err = src.ResolveList(ctx, c.listName)
	} else {
		list, err = src.DefaultList(ctx)
	}
	if err != nil {
		return reportGoogleError(errOut, err)
	}

	items, err := src.OpenTasks(ctx, list.ID)
	if err != nil {
		return reportGoogleError(errOut, err)
	}

	if c.dryRun {
		output.FormatListHeader(out, list.Title)
		for i, item := range items {
			output.FormatTitle(out, i+1, item.Title)
		}
		return exitcode.Success
	}

	imported := 0
	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" {
			continue
		}
		if _, err := svc.CreateTask(ctx, item.Title); err != nil {
			fmt.Fprintf(errOut, "error: backend error after %d imported: %v\n", imported, err)
			return exitcode.BackendError
		}
		imported++
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "imported %d tasks from %s\n", imported, list.Title)
	}
	return exitcode.Success
}

func reportGoogleError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, googletasks.ErrListNotFound), errors.Is(err, googletasks.ErrAmbiguousList):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, googletasks.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: google error: %v\n", err)
		return exitcode.BackendError
	}
}
