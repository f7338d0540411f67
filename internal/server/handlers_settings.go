package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/daniel/fieldnote-analyzer/internal/store"
)

// UpdateSettingsRequest represents the request body for PUT /settings/matching
type UpdateSettingsRequest struct {
	ThresholdPercent *int   `json:"threshold_percent" validate:"required,gte=0,lte=100"`
	AutoRefresh      *bool  `json:"auto_refresh" validate:"required"`
	RefreshInterval  string `json:"refresh_interval" validate:"required,oneof=hourly daily weekly"`
}

// handleGetMatchingSettings returns the current matching settings
func (s *Server) handleGetMatchingSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.storage.GetMatchingSettings(r.Context())
	if err != nil {
		s.log.WithError(err).Error("failed to get matching settings")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get matching settings")
		return
	}
	s.jsonResponse(w, http.StatusOK, settings)
}

// handleUpdateMatchingSettings updates the matching settings. The threshold
// takes effect for requests that start after the write; in-flight requests
// keep the value they captured.
func (s *Server) handleUpdateMatchingSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		verr := validationError(err)
		s.errorResponse(w, HTTPStatus(verr), "Invalid settings: "+verr.Error())
		return
	}

	settings, err := s.storage.UpdateMatchingSettings(r.Context(), store.MatchingSettings{
		ThresholdPercent: *req.ThresholdPercent,
		AutoRefresh:      *req.AutoRefresh,
		RefreshInterval:  strings.ToLower(req.RefreshInterval),
	})
	if err != nil {
		s.log.WithError(err).Error("failed to update matching settings")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update matching settings")
		return
	}
	s.jsonResponse(w, http.StatusOK, settings)
}
