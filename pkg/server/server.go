// Package server provides the MCP server implementation for the BGS
// borehole integration.
package server

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ukgeotools/bgsmcp/pkg/bgs"
	"github.com/ukgeotools/bgsmcp/pkg/borehole"
	"github.com/ukgeotools/bgsmcp/pkg/tools"
	"github.com/ukgeotools/bgsmcp/pkg/tools/prompts"
)

const (
	// ServerName is the name of the MCP server
	ServerName = "bgs-borehole-mcp-server"

	// ServerVersion is the version of the MCP server
	ServerVersion = "0.1.0"
)

// Config holds the server settings. Zero values fall back to defaults.
type Config struct {
	// BaseURL overrides the BGS OGC API endpoint.
	BaseURL string

	// Collection overrides the borehole index collection.
	Collection string

	// RateLimit is the sustained upstream request rate in requests per
	// second.
	RateLimit float64

	Logger *slog.Logger
}

// Server encapsulates the MCP server with BGS borehole tools.
type Server struct {
	srv    *server.MCPServer
	logger *slog.Logger
}

// NewServer creates a new BGS borehole MCP server with all tools and
// prompts registered.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("initializing BGS borehole MCP server",
		"name", ServerName,
		"version", ServerVersion)

	client := bgs.NewClient(bgs.Config{
		BaseURL:    cfg.BaseURL,
		Collection: cfg.Collection,
		RateLimit:  cfg.RateLimit,
		Logger:     logger,
	})
	engine := borehole.NewEngine(client, logger)

	// Create MCP server with options
	srv := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	// Create tool registry and register all tools
	registry := tools.NewRegistry(logger, engine, client)
	registry.RegisterTools(srv)

	prompts.RegisterBoreholePrompts(srv)

	return &Server{srv: srv, logger: logger}, nil
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	return server.ServeStdio(s.srv)
}

// RunHTTP starts the MCP server over SSE on the given address, for
// deployments where stdio is not available.
func (s *Server) RunHTTP(addr string) error {
	s.logger.Info("serving MCP over HTTP", "addr", addr)
	return server.NewSSEServer(s.srv).Start(addr)
}
