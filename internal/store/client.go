// Package store speaks the version store protocol: every accepted edit
// produces a Version linked to its parent, and the editor walks that chain
// one step at a time for undo and redo.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Version is one point in a page's edit history.
type Version struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// ErrNotFound marks the benign miss: the version has no parent (or child),
// or the page has no versions yet. Callers treat it as a no-op, not a fault.
var ErrNotFound = errors.New("version not found")

// Client is an HTTP client for a version store.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the store at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: http.DefaultClient}
}

// Latest fetches the newest version recorded for a page.
func (c *Client) Latest(ctx context.Context, pageID string) (*Version, error) {
	return c.get(ctx, fmt.Sprintf("%s/api/pages/%s/latest", c.baseURL, url.PathEscape(pageID)))
}

// Parent fetches the version the given version was derived from.
func (c *Client) Parent(ctx context.Context, versionID string) (*Version, error) {
	return c.get(ctx, fmt.Sprintf("%s/api/versions/%s/parent", c.baseURL, url.PathEscape(versionID)))
}

// Child fetches the version derived from the given version.
func (c *Client) Child(ctx context.Context, versionID string) (*Version, error) {
	return c.get(ctx, fmt.Sprintf("%s/api/versions/%s/child", c.baseURL, url.PathEscape(versionID)))
}

func (c *Client) get(ctx context.Context, u string) (*Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("version store request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("version store responded %s", resp.Status)
	}

	var v Version
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode version: %w", err)
	}
	return &v, nil
}
