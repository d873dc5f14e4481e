package transport

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
)

// SSEServer broadcasts snapshots via Server-Sent Events.
type SSEServer struct {
	host    string
	port    int
	clients map[chan []byte]bool
	mu      sync.RWMutex
	server  *http.Server
}

// NewSSEServer creates a new SSE server.
func NewSSEServer(host string, port int) *SSEServer {
	return &SSEServer{
		host:    host,
		port:    port,
		clients: make(map[chan []byte]bool),
	}
}

// Start starts the SSE server and blocks until ctx is cancelled.
func (s *SSEServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/station/sse", s.handleSSE)
	mux.HandleFunc("/", s.handleRoot)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("SSE server listening on http://%s:%d/station/sse", s.host, s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("SSE server failed: %w", err)
		}
		return nil
	}
}

func (s *SSEServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "Station Simulator SSE Server\n\nEndpoint: http://%s:%d/station/sse\n", s.host, s.port)
}

func (s *SSEServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan []byte, 100)
	s.addClient(clientChan)
	defer s.removeClient(clientChan)

	log.Printf("SSE client connected (total: %d)", s.GetClientCount())

	for {
		select {
		case <-r.Context().Done():
			return
		case payload, ok := <-clientChan:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (s *SSEServer) addClient(ch chan []byte) {
	s.mu.Lock()
	s.clients[ch] = true
	s.mu.Unlock()
}

func (s *SSEServer) removeClient(ch chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.clients[ch]; exists {
		delete(s.clients, ch)
		close(ch)
		log.Printf("SSE client disconnected (total: %d)", len(s.clients))
	}
}

// Broadcast sends a payload to all connected clients. Clients that fall
// behind have the payload dropped rather than blocking the broadcast.
func (s *SSEServer) Broadcast(payload []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.clients {
		select {
		case ch <- payload:
		default:
		}
	}
}

// BroadcastFromChannel reads payloads and broadcasts them until ctx is
// cancelled or the channel closes.
func (s *SSEServer) BroadcastFromChannel(ctx context.Context, payloads <-chan []byte) error {
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

// GetClientCount returns connected client count.
func (s *SSEServer) GetClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown gracefully stops the server.
func (s *SSEServer) Shutdown() error {
	s.mu.Lock()
	for ch := range s.clients {
		close(ch)
	}
	s.clients = make(map[chan []byte]bool)
	s.mu.Unlock()

	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// GetAddress returns the server address.
func (s *SSEServer) GetAddress() string {
	return fmt.Sprintf("http://%s:%d/station/sse", s.host, s.port)
}
