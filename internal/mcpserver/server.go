// Package mcpserver exposes the symptom tracker over the Model Context
// Protocol: tools for the entry lifecycle, resources for browsing stored
// entries and the document schema, and a follow-up guidance prompt.
package mcpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"symptomminder/internal/bootstrap/config"
	"symptomminder/internal/usecase/tracker"
)

const serverVersion = "0.1.0"

type Server struct {
	mcp     *mcp.Server
	tracker *tracker.Service
}

func New(cfg config.Config, trackerSvc *tracker.Service) *Server {
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.App.Name,
			Version: serverVersion,
		}, nil),
		tracker: trackerSvc,
	}
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// RunStdio serves the MCP session over stdin/stdout until the client
// disconnects or the context is cancelled.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP surface: the streamable MCP endpoint at /mcp and
// a liveness probe at /healthz.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil))
	return r
}
