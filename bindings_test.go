// bindings_test.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pageforge/internal/session"
	"pageforge/internal/store"
	"pageforge/internal/target"
)

func newTestApp(t *testing.T, genHandler, storeHandler http.HandlerFunc) *App {
	t.Helper()

	genSrv := httptest.NewServer(genHandler)
	t.Cleanup(genSrv.Close)
	storeSrv := httptest.NewServer(storeHandler)
	t.Cleanup(storeSrv.Close)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAGEFORGE_GENERATE_URL", genSrv.URL)
	t.Setenv("PAGEFORGE_STORE_URL", storeSrv.URL)

	app := NewApp()
	if err := app.Startup(context.Background()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	t.Cleanup(func() { app.Shutdown(context.Background()) })
	return app
}

func storeNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "not found", http.StatusNotFound)
}

// latestThenNotFound answers the latest-version fetch and 404s every other
// store lookup.
func latestThenNotFound(id, html string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/pages/page-1/latest" {
			json.NewEncoder(w).Encode(store.Version{ID: id, HTML: html})
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func waitForCursor(t *testing.T, app *App, pageID, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st, err := app.PageState(pageID)
		if err == nil && st.VersionID == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("cursor never reached %q", want)
}

func heroTestLayout() target.Layout {
	return target.Layout{
		Surface: target.Rect{W: 800, H: 600},
		Boxes: []target.Box{
			{Path: "0", Tag: "DIV", Depth: 0, Rect: target.Rect{W: 800, H: 600}},
		},
	}
}

// TestKeyEventUndoChordAtRoot drives the undo chord through the RPC binding
// against a store with no parent for the current version: nothing changes
// and no error escapes.
func TestKeyEventUndoChordAtRoot(t *testing.T) {
	markup := `<div style="color:blue">Hello</div>`
	app := newTestApp(t, storeNotFound, latestThenNotFound("v2", markup))

	ctx := context.Background()
	if _, err := app.OpenPage(ctx, "page-1", markup); err != nil {
		t.Fatalf("OpenPage: %v", err)
	}
	waitForCursor(t, app, "page-1", "v2")

	if err := app.KeyEvent(ctx, "page-1", "z", true, false, false); err != nil {
		t.Fatalf("undo chord: %v", err)
	}

	st, err := app.PageState("page-1")
	if err != nil {
		t.Fatalf("PageState: %v", err)
	}
	if st.VersionID != "v2" {
		t.Errorf("cursor = %q, want v2", st.VersionID)
	}
	if st.Snapshot != markup {
		t.Errorf("snapshot changed: %q", st.Snapshot)
	}
	if st.Loading {
		t.Error("loading should have ended")
	}

	// Redo at the tip behaves the same way.
	if err := app.KeyEvent(ctx, "page-1", "z", true, true, false); err != nil {
		t.Fatalf("redo chord: %v", err)
	}
	if st, _ := app.PageState("page-1"); st.VersionID != "v2" {
		t.Errorf("cursor after redo = %q, want v2", st.VersionID)
	}
}

// TestKeyEventEnterCommits walks the edit flow through the bindings: click,
// type, Enter while the input is focused.
func TestKeyEventEnterCommits(t *testing.T) {
	var req struct {
		Text      string  `json:"text"`
		VersionID *string `json:"versionId"`
	}
	gen := func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"html":    `<div style="color:blue">Hello</div>`,
			"version": map[string]string{"id": "v2"},
		})
	}

	app := newTestApp(t, gen, latestThenNotFound("v1", `<div>Hello</div>`))

	ctx := context.Background()
	if _, err := app.OpenPage(ctx, "page-1", `<div>Hello</div>`); err != nil {
		t.Fatalf("OpenPage: %v", err)
	}
	waitForCursor(t, app, "page-1", "v1")

	if err := app.UpdateLayout("page-1", heroTestLayout()); err != nil {
		t.Fatalf("UpdateLayout: %v", err)
	}
	if err := app.Click("page-1", 10, 10); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if err := app.SetInput("page-1", "make it blue"); err != nil {
		t.Fatalf("SetInput: %v", err)
	}

	if err := app.KeyEvent(ctx, "page-1", "Enter", false, false, true); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	if req.Text != "make it blue" {
		t.Errorf("request text = %q", req.Text)
	}
	if req.VersionID == nil || *req.VersionID != "v1" {
		t.Errorf("request versionId = %v, want v1", req.VersionID)
	}

	st, err := app.PageState("page-1")
	if err != nil {
		t.Fatalf("PageState: %v", err)
	}
	if st.VersionID != "v2" {
		t.Errorf("cursor = %q, want v2", st.VersionID)
	}
	if st.Snapshot != `<div style="color:blue">Hello</div>` {
		t.Errorf("snapshot = %q", st.Snapshot)
	}
	if st.Mode != session.ModeIdle {
		t.Errorf("mode = %q, want idle", st.Mode)
	}
}

// TestKeyEventOpenAndEscape checks the global open key and Escape routing.
func TestKeyEventOpenAndEscape(t *testing.T) {
	app := newTestApp(t, storeNotFound, storeNotFound)

	ctx := context.Background()
	if _, err := app.OpenPage(ctx, "page-1", `<div>Hello</div>`); err != nil {
		t.Fatalf("OpenPage: %v", err)
	}

	if err := app.KeyEvent(ctx, "page-1", "/", false, false, false); err != nil {
		t.Fatalf("open key: %v", err)
	}
	if st, _ := app.PageState("page-1"); st.Mode != session.ModeTyping {
		t.Errorf("mode = %q, want typing", st.Mode)
	}

	if err := app.KeyEvent(ctx, "page-1", "Escape", false, false, true); err != nil {
		t.Fatalf("escape: %v", err)
	}
	if st, _ := app.PageState("page-1"); st.Mode != session.ModeIdle {
		t.Errorf("mode = %q, want idle", st.Mode)
	}
}

func TestBindingsUnknownPage(t *testing.T) {
	app := newTestApp(t, storeNotFound, storeNotFound)

	if _, err := app.PageState("nope"); err == nil {
		t.Error("PageState for an unopened page should fail")
	}
	if err := app.KeyEvent(context.Background(), "nope", "z", true, false, false); err == nil {
		t.Error("KeyEvent for an unopened page should fail")
	}
	if _, err := app.OpenPage(context.Background(), "", "<div></div>"); err == nil {
		t.Error("OpenPage without a page id should fail")
	}
}
