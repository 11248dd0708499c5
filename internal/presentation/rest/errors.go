package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/fraud-detection/internal/application/usecase"
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/service"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Detail  string             `json:"detail,omitempty"`
	Errors  []model.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeError classifies err and writes the matching response. Validation
// failures are client errors and only logged at WARN; unexpected errors are
// logged in full and answered without internals.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		h.logger.WarnContext(r.Context(), "request validation failed",
			slog.String("path", r.URL.Path),
			slog.Int("error_count", len(verr.Fields)),
			slog.String("detail", verr.Error()),
		)
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "ValidationError",
			Message: "Invalid input data. Please check all required fields.",
			Detail:  verr.Error(),
			Errors:  verr.Fields,
		})

	case errors.Is(err, service.ErrModelNotLoaded):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "ServiceUnavailable",
			Message: "Model not loaded. Please try again later.",
			Detail:  "Status code: 503",
		})

	case errors.Is(err, usecase.ErrRegistryNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "ServiceUnavailable",
			Message: "Model registry client not initialized",
			Detail:  "Status code: 503",
		})

	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "InternalServerError",
			Message: "Internal server error",
		})
	}
}
