// Package generate is the client for the generation service: it sends an
// instruction plus editing context and receives rewritten markup together
// with the version record the service minted for it.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"pageforge/internal/dom"
	"pageforge/internal/store"
)

// Request is one rewrite instruction. Element is nil for a whole-page edit.
// VersionID is nil when the initial version fetch has not completed yet.
type Request struct {
	Text      string      `json:"text"`
	Element   *dom.Target `json:"element,omitempty"`
	FullHTML  string      `json:"fullHtml"`
	PageID    string      `json:"pageId"`
	VersionID *string     `json:"versionId"`
}

// Response carries the rewritten document and its new version record.
type Response struct {
	HTML    string        `json:"html"`
	Version store.Version `json:"version"`
}

// Client posts rewrite requests to the generation service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: http.DefaultClient}
}

// Rewrite sends the request and returns the sanitized result. Any non-success
// response is an error; the caller logs it and leaves state untouched.
func (c *Client) Rewrite(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode rewrite request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build rewrite request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation service responded %s", resp.Status)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode rewrite response: %w", err)
	}

	// Generated markup never reaches the surface unsanitized.
	out.HTML = dom.Sanitize(out.HTML)
	return &out, nil
}
