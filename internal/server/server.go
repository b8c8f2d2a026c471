// Package server hosts the single-page discovery UI and its JSON API.
package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/remvze/gitscovery/internal/utils"
	"github.com/remvze/gitscovery/pkg/picker"
	"github.com/remvze/gitscovery/pkg/provider"
)

//go:embed web
var WebFS embed.FS

type Server struct {
	Provider *provider.Provider
	Control  *picker.Control
}

func New(p *provider.Provider, c *picker.Control) *Server {
	return &Server{
		Provider: p,
		Control:  c,
	}
}

// Handler builds the route table; split from Start so tests can drive it
// with httptest.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	// API Group
	mux.HandleFunc("GET /api/repos", s.handleRepos)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/pick", s.handlePick)

	// Static Files
	webRoot, err := fs.Sub(WebFS, "web")
	if err != nil {
		return nil, err
	}
	mux.Handle("/", http.FileServer(http.FS(webRoot)))

	return mux, nil
}

func (s *Server) Start(addr string) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}
	utils.Log.Info("Starting server on ", addr)
	return http.ListenAndServe(addr, handler)
}
