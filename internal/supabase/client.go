// Package supabase stores tasks in a hosted Supabase (PostgREST) table,
// scoped to a single owner.
package supabase

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/task"
	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

// DefaultTable is the table tasks are stored in.
const DefaultTable = "tasks"

// DefaultTimeout bounds how long a request waits for response headers.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// URL is the project URL, e.g. https://xyz.supabase.co.
	URL string
	// Key is the project API key, sent as the apikey header.
	Key string
	// AccessToken is the signed-in user's JWT. Defaults to Key.
	AccessToken string
	// Owner is the UUID of the user owning the tasks.
	Owner string
	// Table defaults to DefaultTable.
	Table string
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
}

// Client is a task.Backend backed by a remote table.
type Client struct {
	rest  *postgrest.Client
	table string
	owner string
}

// New validates opts and returns a client.
func New(opts Options) (*Client, error) {
	if internalstrings.IsBlank(opts.URL) {
		return nil, fmt.Errorf("supabase url is required")
	}
	if internalstrings.IsBlank(opts.Key) {
		return nil, fmt.Errorf("supabase key is required")
	}
	owner, err := uuid.Parse(strings.TrimSpace(opts.Owner))
	if err != nil {
		return nil, fmt.Errorf("supabase owner must be a user UUID: %w", err)
	}

	table := opts.Table
	if table == "" {
		table = DefaultTable
	}
	token := opts.AccessToken
	if token == "" {
		token = opts.Key
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	restURL := internalstrings.TrimTrailingSlash(strings.TrimSpace(opts.URL)) + "/rest/v1"
	rest := postgrest.NewClient(restURL, "public", nil)
	if rest.ClientError != nil {
		return nil, fmt.Errorf("supabase url: %w", rest.ClientError)
	}
	rest.SetApiKey(opts.Key).SetAuthToken(token)
	rest.Transport.Parent = newTransport(timeout)

	return &Client{rest: rest, table: table, owner: owner.String()}, nil
}

func newTransport(timeout time.Duration) http.RoundTripper {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
	}
}

// Load implements task.Backend. The remote table always counts as stored
// data, so sample tasks are never seeded into it.
func (c *Client) Load(ctx context.Context) ([]task.Task, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var rows []row
	_, err := c.rest.From(c.table).
		Select("*", "", false).
		Eq("user_id", c.owner).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, false, fmt.Errorf("select tasks: %w", err)
	}
	return tasksFromRows(rows), true, nil
}

// Insert implements task.Backend. The table assigns the stored ID.
func (c *Client) Insert(ctx context.Context, t task.Task) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	payload := rowFromTask(t, c.owner)
	payload.ID = ""

	var rows []row
	_, err := c.rest.From(c.table).
		Insert(payload, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return task.Task{}, fmt.Errorf("insert task: %w", err)
	}
	if len(rows) == 0 {
		return task.Task{}, fmt.Errorf("insert task: no row returned")
	}
	return rows[0].task(), nil
}

// Update implements task.Backend.
func (c *Client) Update(ctx context.Context, t task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload := rowFromTask(t, c.owner)
	payload.ID = ""

	var rows []row
	_, err := c.rest.From(c.table).
		Update(payload, "representation", "").
		Eq("user_id", c.owner).
		Eq("id", t.ID).
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s", task.ErrTaskNotFound, t.ID)
	}
	return nil
}

// Delete implements task.Backend.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := c.rest.From(c.table).
		Delete("minimal", "").
		Eq("user_id", c.owner).
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteCompleted implements task.Backend.
func (c *Client) DeleteCompleted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := c.rest.From(c.table).
		Delete("minimal", "").
		Eq("user_id", c.owner).
		Eq("completed", "true").
		Execute()
	if err != nil {
		return fmt.Errorf("delete completed tasks: %w", err)
	}
	return nil
}
