package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/daniel/fieldnote-analyzer/internal/analysis"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// AnalyzeRequest represents the request body for /analyze. Exactly one of
// text and audio_base64 is expected; text wins when both are present.
type AnalyzeRequest struct {
	Text            string  `json:"text,omitempty"`
	AudioBase64     string  `json:"audio_base64,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty" validate:"gte=0"`
	ProspectName    string  `json:"prospect_name,omitempty" validate:"max=200"`
	UserID          string  `json:"user_id,omitempty" validate:"max=100"`
}

// AnalyzeResponse represents the response for /analyze
type AnalyzeResponse struct {
	ReportID     string                  `json:"report_id,omitempty"`
	Transcript   string                  `json:"transcript"`
	Record       types.ExtractedRecord   `json:"record"`
	MatchedTags  []string                `json:"matched_tags"`
	Quality      types.QualityAssessment `json:"quality"`
	Synopsis     string                  `json:"synopsis"`
	Degraded     bool                    `json:"degraded"`
	Degradations []types.Degradation     `json:"degradations,omitempty"`
}

// handleAnalyze runs the full analysis pipeline for one narrative
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validate.Struct(&req); err != nil {
		verr := validationError(err)
		s.errorResponse(w, HTTPStatus(verr), "Invalid request: "+verr.Error())
		return
	}

	var audio []byte
	if req.AudioBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.AudioBase64)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "audio_base64 is not valid base64")
			return
		}
		audio = decoded
	}

	// The per-user template override is best effort; a lookup failure falls
	// back to the default template rather than failing the run.
	var template string
	if req.UserID != "" && s.storage != nil {
		tmpl, err := s.storage.GetSynopsisTemplate(r.Context(), req.UserID)
		if err != nil {
			s.log.WithError(err).Warn("synopsis template lookup failed, using default")
		} else {
			template = tmpl
		}
	}

	result, err := s.analyzer.Analyze(r.Context(), analysis.Request{
		Input: types.NarrativeInput{
			RawText:         req.Text,
			Audio:           audio,
			DurationSeconds: req.DurationSeconds,
		},
		ProspectName:     req.ProspectName,
		SynopsisTemplate: template,
	})
	if err != nil {
		s.log.WithError(err).Error("analysis failed")
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := AnalyzeResponse{
		Transcript:   result.Transcript,
		Record:       result.Record,
		MatchedTags:  result.MatchedTags,
		Quality:      result.Quality,
		Synopsis:     result.Synopsis,
		Degraded:     result.Degraded(),
		Degradations: result.Degradations,
	}

	if req.UserID != "" && s.storage != nil {
		id, err := s.storage.SaveReport(r.Context(), req.UserID, result)
		if err != nil {
			// The analysis itself succeeded; return it and let the caller retry persistence
			s.log.WithError(err).Error("failed to persist report")
		} else {
			resp.ReportID = id.String()
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}
