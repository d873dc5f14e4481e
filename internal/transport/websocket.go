// Package transport broadcasts simulation snapshots to external observers
// over WebSocket, Server-Sent Events, and UDP. Payloads are pre-marshaled
// JSON; the transports never inspect them.
package transport

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WebSocketServer broadcasts snapshots to WebSocket clients.
type WebSocketServer struct {
	host    string
	port    int
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	server  *http.Server
}

// NewWebSocketServer creates a new WebSocket server.
func NewWebSocketServer(host string, port int) *WebSocketServer {
	return &WebSocketServer{
		host:    host,
		port:    port,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Start starts the WebSocket server and blocks until ctx is cancelled.
func (s *WebSocketServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/station", s.handleWebSocket)
	mux.HandleFunc("/", s.handleRoot)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: mux,
	}

	go func() {
		log.Printf("WebSocket server listening on ws://%s:%d/station", s.host, s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	<-ctx.Done()
	return s.Shutdown()
}

func (s *WebSocketServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "Station Simulator Snapshot Server\n\n")
	fmt.Fprintf(w, "WebSocket endpoint: ws://%s:%d/station\n", s.host, s.port)
	fmt.Fprintf(w, "Connected clients: %d\n", s.GetClientCount())
}

func (s *WebSocketServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	clientCount := len(s.clients)
	s.mu.Unlock()

	log.Printf("Client connected from %s (total: %d)", r.RemoteAddr, clientCount)

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		clientCount := len(s.clients)
		s.mu.Unlock()

		conn.Close()
		log.Printf("Client disconnected (total: %d)", clientCount)
	}()

	// Keep the connection open; inbound messages are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends a payload to all connected clients.
func (s *WebSocketServer) Broadcast(payload []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for client := range s.clients {
		if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Failed to send to client: %v", err)
		}
	}
}

// BroadcastFromChannel reads payloads and broadcasts them until ctx is
// cancelled or the channel closes.
func (s *WebSocketServer) BroadcastFromChannel(ctx context.Context, payloads <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-payloads:
			if !ok {
				return nil
			}
			s.Broadcast(payload)
		}
	}
}

// GetClientCount returns the number of connected clients.
func (s *WebSocketServer) GetClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown closes the HTTP server.
func (s *WebSocketServer) Shutdown() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// GetAddress returns the websocket endpoint address.
func (s *WebSocketServer) GetAddress() string {
	return fmt.Sprintf("ws://%s:%d/station", s.host, s.port)
}
