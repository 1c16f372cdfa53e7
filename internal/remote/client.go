// Package remote lists notebooks from a Jupyter-compatible server and
// follows its change feed.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Item is one entry from a server contents listing.
type Item struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Type         string    `json:"type"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
}

// listing is the wire shape of GET /api/contents responses.
type listing struct {
	Type    string `json:"type"`
	Content []Item `json:"content"`
}

// Client talks to a notebook server's contents API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a contents client for a server base URL. The token may be
// empty for unauthenticated servers.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
}

// List fetches the notebooks in a server directory, sorted by name. Entries
// that are not notebooks are dropped.
func (c *Client) List(ctx context.Context, dir string) ([]Item, error) {
	endpoint := c.baseURL + "/api/contents/" + url.PathEscape(strings.Trim(dir, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach notebook server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read server response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, fmt.Errorf("notebook server rejected token (HTTP %d)", resp.StatusCode)
	case http.StatusNotFound:
		return nil, fmt.Errorf("path not found on notebook server: %s", dir)
	default:
		return nil, fmt.Errorf("notebook server returned HTTP %d", resp.StatusCode)
	}

	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("failed to parse contents listing: %w", err)
	}
	if l.Type != "directory" {
		return nil, fmt.Errorf("path is not a directory on notebook server: %s", dir)
	}

	var items []Item
	for _, item := range l.Content {
		if item.Type == "notebook" {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

// Ping verifies the server is reachable and the token is accepted.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.List(ctx, "")
	return err
}
