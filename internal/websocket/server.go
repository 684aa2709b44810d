package websocket

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Options configures the server. AuthKey, when non-empty, is required from
// clients as the "key" query parameter on the upgrade request.
type Options struct {
	Addr    string
	AuthKey string
}

// Server upgrades HTTP connections, routes RPC requests to the bound
// receiver, and fans events out to every connected client.
type Server struct {
	opts   Options
	router *Router
	mux    *http.ServeMux
	http   *http.Server

	mu      sync.RWMutex
	clients map[*Client]struct{}

	upgrader websocket.Upgrader
}

func NewServer(opts Options) *Server {
	s := &Server{
		opts:    opts,
		router:  NewRouter(),
		mux:     http.NewServeMux(),
		clients: make(map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The editor runs inside arbitrary pages, so cross-origin
			// upgrades are expected. The auth key gates access instead.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.mux.HandleFunc("/ws", s.handleUpgrade)
	s.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	return s
}

// Bind exposes every exported method of target over RPC.
func (s *Server) Bind(target interface{}) {
	s.router.Bind(target)
}

// Handle mounts an extra HTTP route on the server mux, e.g. the command
// overlay or a development version store.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.http = &http.Server{Addr: s.opts.Addr, Handler: s.mux}
	log.Printf("websocket: listening on %s", s.opts.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("websocket server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		c.close()
	}
	s.clients = make(map[*Client]struct{})
	s.mu.Unlock()

	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if s.opts.AuthKey != "" {
		// Browsers cannot set headers on WebSocket upgrades, so the key is
		// accepted from either place.
		key := r.Header.Get("X-Auth-Key")
		if key == "" {
			key = r.URL.Query().Get("key")
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.opts.AuthKey)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket: upgrade: %v", err)
		return
	}

	client := newClient(conn)
	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	go client.writePump()
	go s.readPump(client)
}

func (s *Server) readPump(client *Client) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
		client.close()
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket: read: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("websocket: bad frame: %v", err)
			continue
		}
		if msg.Kind != "rpc_request" || msg.Request == nil {
			continue
		}
		// The request context dies with the upgrade handler, so calls run
		// against their own context.
		go s.dispatch(context.Background(), client, *msg.Request)
	}
}

func (s *Server) dispatch(ctx context.Context, client *Client, req RPCRequest) {
	result, err := s.router.Call(ctx, req.Method, req.Params)
	resp := RPCResponse{ID: req.ID}
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Result = result
	}
	client.SendResponse(resp)
}

// BroadcastEvent pushes an event to every connected client. It satisfies
// eventhub.Broadcaster.
func (s *Server) BroadcastEvent(eventType string, payload interface{}) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		c.SendEvent(eventType, payload)
	}
}
