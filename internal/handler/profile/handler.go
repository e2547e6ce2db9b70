package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/makialabs/makia-oracle/backend/internal/model/profile"
	"github.com/makialabs/makia-oracle/backend/pkg/utils"
)

// Handler serves the tutor profile roster.
type Handler struct {
	profiles profile.Store
}

// New creates the profile handler.
func New(profiles profile.Store) *Handler {
	return &Handler{profiles: profiles}
}

// RegisterRoutes registers the roster endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/professors", h.handleListProfessors)
}

func (h *Handler) handleListProfessors(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"professors": h.profiles.List(),
	})
}
