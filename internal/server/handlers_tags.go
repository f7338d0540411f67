package server

import (
	"net/http"

	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// TagsResponse represents the response for GET /tags
type TagsResponse struct {
	Tags []types.TagCatalogEntry `json:"tags"`
}

// handleListTags returns the current affinity tag catalog
func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.storage.ListTags(r.Context())
	if err != nil {
		s.log.WithError(err).Error("failed to list tags")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list tags")
		return
	}
	if tags == nil {
		tags = []types.TagCatalogEntry{}
	}
	s.jsonResponse(w, http.StatusOK, TagsResponse{Tags: tags})
}

// handleSyncTags triggers an out-of-cycle catalog refresh. The refresh runs
// in the background; this endpoint returns immediately.
func (s *Server) handleSyncTags(w http.ResponseWriter, _ *http.Request) {
	if s.refresher == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Catalog refresh is not configured")
		return
	}
	s.refresher.TriggerNow()
	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "refresh_triggered"})
}
