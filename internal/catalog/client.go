package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when the catalog has no entity for a given reference.
var ErrNotFound = errors.New("entity not found")

// Config describes how to reach the catalog REST API.
type Config struct {
	// Base URL of the catalog API, e.g. "https://catalog.example.com/api".
	BaseURL string `yaml:"baseUrl"`
	// Static bearer token used when no request-scoped token is available.
	Token string `yaml:"token"`
}

// Client looks up catalog entities by reference.
type Client interface {
	// Entity returns the entity for ref, or ErrNotFound.
	// token is the request-scoped credential; if empty, the client's
	// service token is used.
	Entity(ctx context.Context, ref *Ref, token string) (*Entity, error)
}

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	cfg Config
	hc  *http.Client
}

func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		cfg: cfg,
		hc:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) Entity(ctx context.Context, ref *Ref, token string) (*Entity, error) {
	u := fmt.Sprintf("%s/entities/by-ref/%s", c.cfg.BaseURL, url.PathEscape(ref.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if token == "" {
		token = c.cfg.Token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request for %q failed: %w", ref, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("catalog returned status %d for %q", resp.StatusCode, ref)
	}

	var entity Entity
	if err := json.NewDecoder(resp.Body).Decode(&entity); err != nil {
		return nil, fmt.Errorf("invalid catalog response for %q: %w", ref, err)
	}
	return &entity, nil
}
