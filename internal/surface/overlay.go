package surface

import (
	_ "embed"
	"net/http"
)

// The command input lives in its own sub-document so host page CSS cannot
// reach it. The contract with the embedder is narrow: the embedder mounts
// this document in a frame, and the document reports upward with
// window.parent.postMessage ({type:"pf-input", value}, {type:"pf-submit"},
// {type:"pf-escape"}), which the embedding shim forwards over the RPC
// surface. Focus and placeholder state follow the session mode events.
//
//go:embed overlay.html
var overlayHTML []byte

// Handler serves the overlay sub-document.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(overlayHTML)
	})
}
