package server

import (
	"encoding/json"
	"net/http"
)

// TemplateRequest represents the request body for PUT /users/{id}/synopsis-template
type TemplateRequest struct {
	Template string `json:"template" validate:"max=10000"`
}

// TemplateResponse represents the response for synopsis template endpoints
type TemplateResponse struct {
	UserID   string `json:"user_id"`
	Template string `json:"template"`
	// Default reports whether the user has no override saved
	Default bool `json:"default"`
}

// handleGetSynopsisTemplate returns a user's synopsis template override
func (s *Server) handleGetSynopsisTemplate(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	template, err := s.storage.GetSynopsisTemplate(r.Context(), userID)
	if err != nil {
		s.log.WithError(err).Error("failed to get synopsis template")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get synopsis template")
		return
	}

	s.jsonResponse(w, http.StatusOK, TemplateResponse{
		UserID:   userID,
		Template: template,
		Default:  template == "",
	})
}

// handleSaveSynopsisTemplate saves a user's synopsis template override
func (s *Server) handleSaveSynopsisTemplate(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		verr := validationError(err)
		s.errorResponse(w, HTTPStatus(verr), "Invalid template: "+verr.Error())
		return
	}

	if err := s.storage.SaveSynopsisTemplate(r.Context(), userID, req.Template); err != nil {
		s.log.WithError(err).Error("failed to save synopsis template")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save synopsis template")
		return
	}

	s.jsonResponse(w, http.StatusOK, TemplateResponse{
		UserID:   userID,
		Template: req.Template,
		Default:  req.Template == "",
	})
}

// handleDeleteSynopsisTemplate removes a user's template override
func (s *Server) handleDeleteSynopsisTemplate(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	if err := s.storage.DeleteSynopsisTemplate(r.Context(), userID); err != nil {
		s.log.WithError(err).Error("failed to delete synopsis template")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete synopsis template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
