package gerrit

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/quill/internal/config"
)

// xssiPrefix guards every Gerrit JSON response.
const xssiPrefix = ")]}'"

// StatusError reports a non-success HTTP status from Gerrit.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gerrit %s %s: status %d: %s", e.Method, e.URL, e.Status, strings.TrimSpace(e.Body))
}

// StatusCode returns the HTTP status.
func (e *StatusError) StatusCode() int { return e.Status }

// IsAuthError reports whether err is a 401 or 403 from Gerrit.
func IsAuthError(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden
	}
	return false
}

// Client provides access to the Gerrit REST API.
type Client struct {
	baseURL  string
	user     string
	password string
	httpCli  *http.Client
}

// NewClient creates a client from the Gerrit section of the configuration.
func NewClient(cfg config.GerritConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("gerrit URL is not set (GERRIT_URL or gerrit.url)")
	}
	if cfg.User == "" || cfg.Password == "" {
		return nil, fmt.Errorf("gerrit credentials are not set (GERRIT_USER and GERRIT_PASS)")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpCli := &http.Client{Timeout: timeout}
	if cfg.InsecureSkipVerify {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed review servers
		httpCli.Transport = transport
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		user:     cfg.User,
		password: cfg.Password,
		httpCli:  httpCli,
	}, nil
}

// OpenChanges lists changes matching query (status:open when empty) with
// their current revision.
func (c *Client) OpenChanges(ctx context.Context, query string) ([]ChangeInfo, error) {
	if query == "" {
		query = "status:open"
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("o", "CURRENT_REVISION")

	var changes []ChangeInfo
	if err := c.getJSON(ctx, "/a/changes/?"+q.Encode(), &changes); err != nil {
		return nil, fmt.Errorf("listing changes: %w", err)
	}
	return changes, nil
}

// Change fetches a change by number or ID with its current revision.
func (c *Client) Change(ctx context.Context, change string) (ChangeInfo, error) {
	var info ChangeInfo
	path := fmt.Sprintf("/a/changes/%s/?o=CURRENT_REVISION", url.PathEscape(change))
	if err := c.getJSON(ctx, path, &info); err != nil {
		return ChangeInfo{}, fmt.Errorf("fetching change %s: %w", change, err)
	}
	return info, nil
}

// Files lists the files of a revision, sorted by path.
func (c *Client) Files(ctx context.Context, changeID, revision string) ([]FileEntry, error) {
	var files map[string]FileInfo
	if err := c.getJSON(ctx, revisionPath(changeID, revision)+"/files/", &files); err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	entries := make([]FileEntry, 0, len(files))
	for p, info := range files {
		entries = append(entries, FileEntry{Path: p, Info: info})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Patch returns the raw (base64) patch body for one file of a revision.
func (c *Client) Patch(ctx context.Context, changeID, revision, path string) ([]byte, error) {
	return c.get(ctx, filePath(changeID, revision, path)+"/patch")
}

// Content returns the raw (base64) content of one file of a revision.
func (c *Client) Content(ctx context.Context, changeID, revision, path string) ([]byte, error) {
	return c.get(ctx, filePath(changeID, revision, path)+"/content")
}

// PostReview posts inline comments on a revision.
func (c *Client) PostReview(ctx context.Context, changeID, revision string, review ReviewInput) error {
	payload, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("marshaling review: %w", err)
	}

	u := c.baseURL + revisionPath(changeID, revision) + "/review"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return fmt.Errorf("posting review: %w", err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return &StatusError{Method: req.Method, URL: u, Status: status, Body: string(body)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{Method: req.Method, URL: u, Status: status, Body: string(body)}
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(StripXSSI(body), v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// StripXSSI removes Gerrit's ")]}'" guard line from a JSON body.
func StripXSSI(body []byte) []byte {
	body = bytes.TrimLeft(body, "\ufeff")
	body = bytes.TrimPrefix(body, []byte(xssiPrefix))
	return bytes.TrimLeft(body, "\r\n")
}

func revisionPath(changeID, revision string) string {
	return "/a/changes/" + url.PathEscape(changeID) + "/revisions/" + url.PathEscape(revision)
}

func filePath(changeID, revision, path string) string {
	return revisionPath(changeID, revision) + "/files/" + url.PathEscape(path)
}

// ChangeRef identifies one revision of one change.
type ChangeRef struct {
	ID       string
	Number   int
	Revision string
}

// Ref returns the reference to the change's current revision.
func (ci ChangeInfo) Ref() ChangeRef {
	return ChangeRef{ID: ci.ID, Number: ci.Number, Revision: ci.CurrentRevision}
}

// String formats the reference for logs.
func (r ChangeRef) String() string {
	if r.Number > 0 {
		return strconv.Itoa(r.Number) + "@" + ShortRev(r.Revision)
	}
	return r.ID + "@" + ShortRev(r.Revision)
}

// ShortRev abbreviates a revision SHA for display.
func ShortRev(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}
