package server

import (
	"log/slog"

	"github.com/athebyme/text-similarity/internal/business"
	"github.com/athebyme/text-similarity/internal/logging"
)

// Limits bound the size of incoming requests.
type Limits struct {
	// MaxTextLength is the maximum length of each text in runes, 0 disables it.
	MaxTextLength int
	MaxBodyBytes  int64
}

// DefaultMaxBodyBytes is used when Limits.MaxBodyBytes is not set.
const DefaultMaxBodyBytes = 10 * 1024 * 1024 // 10 MB

// Server holds the server implementation
type Server struct {
	Metrics *business.Registry
	Stats   *Stats
	Logger  *slog.Logger
	Limits  Limits
}

// NewServer creates a new server instance
func NewServer(registry *business.Registry, logger *slog.Logger, limits Limits) *Server {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if limits.MaxBodyBytes <= 0 {
		limits.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{
		Metrics: registry,
		Stats:   NewStats(),
		Logger:  logger,
		Limits:  limits,
	}
}
