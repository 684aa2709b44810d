package store

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// Server exposes a Store over the version store protocol. The write endpoint
// is the path the generation collaborator persists new versions through.
type Server struct {
	store *Store
}

// NewServer wraps a Store with HTTP handlers.
func NewServer(store *Store) *Server {
	return &Server{store: store}
}

// Handler returns the route table for mounting under a mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/pages/{page}/latest", s.handleLatest)
	mux.HandleFunc("GET /api/versions/{id}/parent", s.handleParent)
	mux.HandleFunc("GET /api/versions/{id}/child", s.handleChild)
	mux.HandleFunc("POST /api/pages/{page}/versions", s.handleInsert)
	return mux
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Latest(r.PathValue("page"))
	s.respond(w, v, err)
}

func (s *Server) handleParent(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Parent(r.PathValue("id"))
	s.respond(w, v, err)
}

func (s *Server) handleChild(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Child(r.PathValue("id"))
	s.respond(w, v, err)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ParentID string `json:"parentId"`
		HTML     string `json:"html"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	v, err := s.store.Insert(r.PathValue("page"), body.ParentID, body.HTML)
	s.respond(w, v, err)
}

func (s *Server) respond(w http.ResponseWriter, v *Version, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("version store: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
