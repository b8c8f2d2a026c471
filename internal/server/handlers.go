package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/remvze/gitscovery/pkg/picker"
)

type StatusResponse struct {
	Loading  bool   `json:"loading"`
	Count    int    `json:"count"`
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
}

type PickResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleRepos(w http.ResponseWriter, r *http.Request) {
	repos := s.Provider.Repos()
	if repos == nil {
		repos = []string{}
	}
	json.NewEncoder(w).Encode(repos)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(StatusResponse{
		Loading:  s.Provider.Loading(),
		Count:    len(s.Provider.Repos()),
		Disabled: s.Control.Disabled(),
		Label:    s.Control.Label(),
	})
}

// handlePick returns a random candidate. The page opens it client-side, so
// a new browsing context comes from the user's own click.
func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	url, err := s.Control.Pick()
	if err != nil {
		if errors.Is(err, picker.ErrNoCandidates) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(PickResponse{URL: url})
}
