package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"pageforge/internal/dom"
)

func TestRewrite(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]any{
			"html":    `<div style="color:blue">Hello</div>`,
			"version": map[string]string{"id": "v2"},
		})
	}))
	t.Cleanup(srv.Close)

	versionID := "v1"
	resp, err := NewClient(srv.URL).Rewrite(context.Background(), &Request{
		Text:      "make it blue",
		Element:   &dom.Target{HTML: "<div>Hello</div>", Tag: "DIV", Text: "Hello"},
		FullHTML:  "<div>Hello</div>",
		PageID:    "page-1",
		VersionID: &versionID,
	})
	require.NoError(t, err)

	require.Equal(t, "make it blue", got.Text)
	require.Equal(t, "DIV", got.Element.Tag)
	require.Equal(t, "v1", *got.VersionID)
	require.Equal(t, `<div style="color:blue">Hello</div>`, resp.HTML)
	require.Equal(t, "v2", resp.Version.ID)
}

func TestRewriteNullFieldsForWholePageEdit(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(map[string]any{"html": "<p>ok</p>", "version": map[string]string{"id": "v1"}})
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).Rewrite(context.Background(), &Request{
		Text:     "rewrite everything",
		FullHTML: "<p>old</p>",
		PageID:   "page-1",
	})
	require.NoError(t, err)

	_, hasElement := raw["element"]
	require.False(t, hasElement, "nil element should be omitted")
	require.Equal(t, "null", string(raw["versionId"]), "missing cursor is sent as null")
}

func TestRewriteSanitizesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"html":    `<div>ok</div><script>alert(1)</script>`,
			"version": map[string]string{"id": "v2"},
		})
	}))
	t.Cleanup(srv.Close)

	resp, err := NewClient(srv.URL).Rewrite(context.Background(), &Request{Text: "x", FullHTML: "y", PageID: "p"})
	require.NoError(t, err)
	require.NotContains(t, resp.HTML, "<script")
	require.Contains(t, resp.HTML, "<div>ok</div>")
}

func TestRewriteNonSuccessIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).Rewrite(context.Background(), &Request{Text: "x", FullHTML: "y", PageID: "p"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}
