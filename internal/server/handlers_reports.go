package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/daniel/fieldnote-analyzer/internal/store"
)

// handleGetReport retrieves one persisted report by ID
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	report, err := s.storage.GetReport(r.Context(), id)
	if err != nil {
		s.log.WithError(err).Error("failed to get report")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get report")
		return
	}
	if report == nil {
		s.errorResponse(w, http.StatusNotFound, "Report not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleListReports returns a user's recent reports, newest first
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 100 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	reports, err := s.storage.ListReports(r.Context(), userID, limit)
	if err != nil {
		s.log.WithError(err).Error("failed to list reports")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}
	if reports == nil {
		reports = []store.Report{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"reports": reports})
}
