// Package googletasks reads task lists from the Google Tasks API. It is the
// source of `faunatodo import-google`.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"faunatodo/internal/config"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// StatusNeedsAction is the status of an open task.
	StatusNeedsAction = "needsAction"
)

var (
	// ErrListNotFound is returned when no list matches a name.
	ErrListNotFound = errors.New("list not found")

	// ErrAmbiguousList is returned when several lists match a name.
	ErrAmbiguousList = errors.New("ambiguous list name")

	// ErrUnauthorized is returned when Google rejects the stored token.
	ErrUnauthorized = errors.New("google token expired or revoked (run: faunatodo google-login)")
)

// TaskList is a Google task list.
type TaskList struct {
	ID        string
	Title     string
	IsDefault bool
}

// Task is an open Google task.
type Task struct {
	ID       string
	Title    string
	Position string
}

// Client reads lists and open tasks.
type Client struct {
	svc *tasks.Service
}

// Option configures the underlying API service.
type Option = option.ClientOption

// New creates a client from the OAuth client file and stored token in the
// config directory.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))
	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client on top of an authenticated HTTP client.
// Extra options (for example option.WithEndpoint) are passed to the API.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	opts = append([]Option{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// DefaultList returns the user's default task list.
func (c *Client) DefaultList(ctx context.Context) (TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	list, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return TaskList{}, wrapError(err)
	}
	return TaskList{ID: DefaultListID, Title: list.Title, IsDefault: true}, nil
}

// ListLists returns all task lists in API order. The default list carries
// DefaultListID.
func (c *Client) ListLists(ctx context.Context) ([]TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	defaultList, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	var result []TaskList
	err = c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			isDefault := list.Id == defaultList.Id
			id := list.Id
			if isDefault {
				id = DefaultListID
			}
			result = append(result, TaskList{ID: id, Title: list.Title, IsDefault: isDefault})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// ResolveList finds a list by name (case-insensitive, trimmed).
func (c *Client) ResolveList(ctx context.Context, name string) (TaskList, error) {
	name = strings.TrimSpace(name)
	nameLower := strings.ToLower(name)

	lists, err := c.ListLists(ctx)
	if err != nil {
		return TaskList{}, err
	}

	var matches []TaskList
	for _, list := range lists {
		if strings.ToLower(strings.TrimSpace(list.Title)) == nameLower {
			matches = append(matches, list)
		}
	}

	switch len(matches) {
	case 0:
		return TaskList{}, fmt.Errorf("%w: %s", ErrListNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return TaskList{}, fmt.Errorf("%w: %s", ErrAmbiguousList, name)
	}
}

// OpenTasks returns every open task of a list across all pages, in API
// order. Each page gets its own timeout.
func (c *Client) OpenTasks(ctx context.Context, listID string) ([]Task, error) {
	var result []Task
	var pageToken string
	for {
		resp, err := c.openTasksPage(ctx, listID, pageToken)
		if err != nil {
			return nil, err
		}
		for _, t := range resp.Items {
			if t.Status != "" && t.Status != StatusNeedsAction {
				continue
			}
			result = append(result, Task{ID: t.Id, Title: t.Title, Position: t.Position})
		}
		if resp.NextPageToken == "" {
			return result, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (c *Client) openTasksPage(ctx context.Context, listID, pageToken string) (*tasks.Tasks, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, wrapError(err)
	}
	return resp, nil
}

// wrapError maps API errors to the package's errors.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("google request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrUnauthorized
		case http.StatusNotFound:
			return ErrListNotFound
		}
	}
	return err
}
