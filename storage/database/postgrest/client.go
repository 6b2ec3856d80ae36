package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core"
)

// Canonical table names. The core never sees these: repositories translate
// between typed entity attributes and the wire rows defined in this package.
const (
	tableUsers        = "users"
	tableUniversities = "universities"
	tableTemplates    = "task_templates"
	tableDeadlines    = "deadlines"
	tableTasks        = "tasks"
)

// Client is a minimal PostgREST (Supabase) client: select/insert/update with
// equality filters, which is all the Reference Store contract requires.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL: conf.Store.PostgrestURL,
		token:   conf.Store.PostgrestToken,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Eq is an equality filter on one column.
type Eq struct {
	Column string
	Value  string
}

func (c *Client) endpoint(table string, filters []Eq) string {
	q := make(url.Values)
	for _, f := range filters {
		q.Set(f.Column, "eq."+f.Value)
	}
	u := url.URL{Path: "/rest/v1/" + table, RawQuery: q.Encode()}
	return c.baseURL + u.String()
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, prefer string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("apikey", c.token)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(core.ErrStoreUnavailable, "%s %s: %v", method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := ioutil.ReadAll(resp.Body)
		return errors.Wrapf(core.ErrStoreUnavailable, "%s %s: status %d: %s", method, endpoint, resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(core.ErrStoreUnavailable, "%s %s: decoding response: %v", method, endpoint, err)
	}
	return nil
}

// Write preferences. The full created/updated set must come back from every
// write; a write the store cannot represent is a definitive failure, never a
// silent partial. Upserts additionally merge into the existing row on a
// primary-key conflict, PostgREST's equivalent of ON CONFLICT DO UPDATE.
const (
	preferRepresentation = "return=representation"
	preferUpsert         = "resolution=merge-duplicates," + preferRepresentation
)

// Select fetches all rows of `table` matching the equality filters into `out`
// (a pointer to a slice of row structs).
func (c *Client) Select(ctx context.Context, table string, filters []Eq, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.endpoint(table, filters), nil, "", out)
}

// Insert writes `rows` (a slice of row structs) as one batch and decodes the
// created rows into `out`.
func (c *Client) Insert(ctx context.Context, table string, rows, out interface{}) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return errors.Wrap(err, "encoding rows")
	}
	return c.do(ctx, http.MethodPost, c.endpoint(table, nil), bytes.NewReader(data), preferRepresentation, out)
}

// Upsert writes `rows` as one batch, merging into existing rows on a
// primary-key conflict so concurrent identical batches stay idempotent, and
// decodes the written rows into `out`.
func (c *Client) Upsert(ctx context.Context, table string, rows, out interface{}) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return errors.Wrap(err, "encoding rows")
	}
	return c.do(ctx, http.MethodPost, c.endpoint(table, nil), bytes.NewReader(data), preferUpsert, out)
}

// Update patches `fields` into all rows matching the equality filters and
// decodes the affected rows into `out`.
func (c *Client) Update(ctx context.Context, table string, fields map[string]interface{}, filters []Eq, out interface{}) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrap(err, "encoding fields")
	}
	return c.do(ctx, http.MethodPatch, c.endpoint(table, filters), bytes.NewReader(data), preferRepresentation, out)
}

func wrapRepoErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, fmt.Sprintf("postgrest: %s", msg))
}
