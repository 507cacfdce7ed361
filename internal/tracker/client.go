package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/issuedash/issuedash/internal/filters"
)

// ErrProjectNotFound is returned when the tracker has no project for a key.
var ErrProjectNotFound = errors.New("project not found")

// Config describes how to reach the issue tracker's REST API.
type Config struct {
	// Base URL of the tracker, e.g. "https://jira.example.com".
	BaseURL string `yaml:"baseUrl"`
	// Bearer token for API access.
	Token string `yaml:"token"`
	// Maximum number of issues returned per search. Defaults to 50.
	MaxResults int `yaml:"maxResults"`
}

// Image is a fetched avatar image. The caller must close Body.
type Image struct {
	Body        io.ReadCloser
	ContentType string
}

// Client is the capability surface of the issue tracker that issuedash uses.
type Client interface {
	ProjectByKey(ctx context.Context, key string) (*Project, error)
	IssuesByFilters(ctx context.Context, projectKey string, fs []filters.Filter) ([]Issue, error)
	IssuesByComponents(ctx context.Context, projectKey string, components []string) ([]Issue, error)
	// FetchImage streams the image at the given tracker URL. The returned
	// body is not buffered; cancelling ctx aborts the transfer.
	FetchImage(ctx context.Context, imageURL string) (*Image, error)
}

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	cfg Config
	hc  *http.Client
	// Separate client for image streaming: no global timeout, the request
	// context bounds the transfer instead.
	sc *http.Client
}

func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 50
	}
	return &HTTPClient{
		cfg: cfg,
		hc:  &http.Client{Timeout: 10 * time.Second},
		sc:  &http.Client{},
	}
}

func (c *HTTPClient) ProjectByKey(ctx context.Context, key string) (*Project, error) {
	u := fmt.Sprintf("%s/rest/api/2/project/%s", c.cfg.BaseURL, url.PathEscape(key))
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, key)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("tracker returned status %d for project %q", resp.StatusCode, key)
	}

	var project Project
	if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
		return nil, fmt.Errorf("invalid project response for %q: %w", key, err)
	}
	return &project, nil
}

func (c *HTTPClient) IssuesByFilters(ctx context.Context, projectKey string, fs []filters.Filter) ([]Issue, error) {
	return c.search(ctx, JQL(projectKey, fs, nil))
}

func (c *HTTPClient) IssuesByComponents(ctx context.Context, projectKey string, components []string) ([]Issue, error) {
	return c.search(ctx, JQL(projectKey, nil, components))
}

func (c *HTTPClient) search(ctx context.Context, jql string) ([]Issue, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", fmt.Sprint(c.cfg.MaxResults))
	u := fmt.Sprintf("%s/rest/api/2/search?%s", c.cfg.BaseURL, q.Encode())

	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracker search returned status %d (jql: %s)", resp.StatusCode, jql)
	}
	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("invalid search response: %w", err)
	}
	return sr.Issues, nil
}

func (c *HTTPClient) FetchImage(ctx context.Context, imageURL string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	resp, err := c.sc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image fetch failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	return &Image{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (c *HTTPClient) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracker request failed: %w", err)
	}
	return resp, nil
}

// JQL builds the tracker query string for a project, ANDing all filters and,
// if non-empty, a component membership clause.
func JQL(projectKey string, fs []filters.Filter, components []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "project = %s", quoteJQL(projectKey))
	for _, f := range fs {
		fmt.Fprintf(&sb, " AND %s %s %s", f.Field, f.Operator, quoteJQL(f.Value))
	}
	if len(components) > 0 {
		quoted := make([]string, len(components))
		for i, comp := range components {
			quoted[i] = quoteJQL(comp)
		}
		fmt.Fprintf(&sb, " AND component in (%s)", strings.Join(quoted, ", "))
	}
	return sb.String()
}

// quoteJQL quotes a JQL operand, escaping embedded quotes and backslashes.
// JQL functions like currentUser() must not be quoted.
func quoteJQL(v string) string {
	if strings.HasSuffix(v, "()") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}
