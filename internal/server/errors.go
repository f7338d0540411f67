package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/daniel/fieldnote-analyzer/internal/analysis"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// validationError wraps a validator failure so HTTPStatus maps it to 400.
// The first failing field names the error; validator reports them in struct
// order.
func validationError(err error) *ErrValidation {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ErrValidation{Field: verrs[0].Field(), Message: verrs[0].Error()}
	}
	return &ErrValidation{Field: "request", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error.
//
// Pipeline failures map by reason: missing input is the caller's fault,
// upstream service failures are bad gateways, and an expired deadline is a
// gateway timeout.
func HTTPStatus(err error) int {
	var verr *ErrValidation
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}

	var perr *analysis.PipelineError
	if errors.As(err, &perr) {
		switch perr.Reason {
		case analysis.ReasonNoInput:
			return http.StatusBadRequest
		case analysis.ReasonTranscriptionUnavailable, analysis.ReasonExtractionFailed:
			return http.StatusBadGateway
		case analysis.ReasonPipelineTimeout:
			return http.StatusGatewayTimeout
		}
	}

	return http.StatusInternalServerError
}
