// Package web serves the local dashboard: a REST API over the agent, a
// websocket stream of log lines and status changes, and the embedded
// static UI.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"auraclick/config"
	"auraclick/logging"
	"auraclick/platform"
	"auraclick/storage"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Local-only server.
	},
}

// Status is the agent state the dashboard renders.
type Status struct {
	Running         bool  `json:"running"`
	Paused          bool  `json:"paused"`
	UptimeSeconds   int64 `json:"uptimeSeconds"`
	TotalExecutions int64 `json:"totalExecutions"`
}

// Controller is the slice of the agent the dashboard drives.
type Controller interface {
	Config() *config.Config
	UpdateConfig(cfg *config.Config) error
	ReloadConfig() error

	StartListener() error
	StopListener() error
	SetPaused(paused bool)
	Status() Status

	Profiles() *config.ProfileManager
	ActivateProfile(name string) error

	ListWindows() ([]platform.Window, error)
	Targets() []platform.Window
	SetTargets(windows []platform.Window)
}

// Server represents the web server
type Server struct {
	ctrl        Controller
	db          *storage.DB
	addr        string
	hub         *Hub
	broadcaster *logging.Broadcaster
}

// NewServer creates a new web server
func NewServer(ctrl Controller, db *storage.DB, addr string, broadcaster *logging.Broadcaster) *Server {
	hub := NewHub()
	go hub.Run()

	return &Server{
		ctrl:        ctrl,
		db:          db,
		addr:        addr,
		hub:         hub,
		broadcaster: broadcaster,
	}
}

// Start starts the web server (blocking).
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/listener", s.handleListener)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/profiles", s.handleProfiles)
	mux.HandleFunc("/api/profiles/", s.handleProfile)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleDeleteHistory)
	mux.HandleFunc("/api/windows", s.handleWindows)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	if s.broadcaster != nil {
		go s.pumpLogs()
	}

	slog.Info("Starting web server", "addr", s.addr, "url", fmt.Sprintf("http://%s", s.addr))

	return http.ListenAndServe(s.addr, mux)
}

// pumpLogs forwards log lines from the process logger to the websocket
// clients.
func (s *Server) pumpLogs() {
	ch := s.broadcaster.Subscribe()
	for line := range ch {
		s.hub.BroadcastMessage(Message{Type: MessageTypeLog, Data: line})
	}
}

// BroadcastStatus pushes an agent status change to all connected clients.
func (s *Server) BroadcastStatus(status Status) {
	s.hub.BroadcastMessage(Message{Type: MessageTypeStatus, Data: status})
}

// BroadcastExecution pushes a finished execution to all connected clients.
func (s *Server) BroadcastExecution(e *storage.Execution) {
	s.hub.BroadcastMessage(Message{Type: MessageTypeExecution, Data: e})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
