package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
)

// Server upgrades HTTP requests into event stream subscriptions.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// ServerConfig holds WebSocket server configuration
type ServerConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultServerConfig returns default WebSocket server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewServer creates a new WebSocket server
func NewServer(hub *Hub, config *ServerConfig, logger *zap.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: logger,
	}
}

// HandleWebSocket handles GET /ws. The optional ?dataset= query narrows the
// subscription to one dataset.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	var dataset string
	if name := r.URL.Query().Get("dataset"); name != "" {
		d, err := valueobjects.ParseDataset(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dataset = string(d.Name())
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Failed to upgrade connection",
			zap.Error(err),
			zap.String("remoteAddr", r.RemoteAddr),
		)
		return
	}

	client := NewClient(dataset, s.hub, conn, s.logger)
	client.Start()

	s.logger.Info("New WebSocket connection established",
		zap.String("connectionID", client.ID()),
		zap.String("dataset", dataset),
		zap.String("remoteAddr", r.RemoteAddr),
	)
}
