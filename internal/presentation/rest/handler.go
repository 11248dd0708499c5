// Package rest serves the fraud detection HTTP API.
package rest

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bibbank/fraud-detection/internal/application/usecase"
	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// maxBodyBytes bounds a request body.
const maxBodyBytes = 1 << 20

// Handler holds the use cases behind the HTTP endpoints.
type Handler struct {
	predict    *usecase.PredictTransaction
	validate   *usecase.ValidatePayload
	listModels *usecase.ListModels
	health     *usecase.GetHealth
	logger     *slog.Logger
	schema     any
	version    string
}

// HandlerConfig carries the dependencies of a Handler.
type HandlerConfig struct {
	Predict    *usecase.PredictTransaction
	Validate   *usecase.ValidatePayload
	ListModels *usecase.ListModels
	Health     *usecase.GetHealth
	Logger     *slog.Logger
	// Schema is served at GET /schema when set.
	Schema  any
	Version string
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		predict:    cfg.Predict,
		validate:   cfg.Validate,
		listModels: cfg.ListModels,
		health:     cfg.Health,
		logger:     cfg.Logger,
		schema:     cfg.Schema,
		version:    cfg.Version,
	}
}

// RegisterRoutes registers the API endpoints on the provided ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("POST /debug/validate", h.DebugValidate)
	mux.HandleFunc("GET /models", h.ListModels)
	if h.schema != nil {
		mux.HandleFunc("GET /schema", h.Schema)
	}
}

// RootResponse describes the service.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: "Fraud Detection API",
		Version: h.version,
		Docs:    "/schema",
		Health:  "/health",
	})
}

// Health handles GET /health. It always answers 200; the body carries the status.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.health.Execute())
}

// Predict handles POST /predict.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		h.writeError(w, r, bodyError(err))
		return
	}

	resp, err := h.predict.Execute(r.Context(), payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ParseFailure is the diagnostic answer for a body that is not a JSON object.
type ParseFailure struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DebugValidate handles POST /debug/validate. It always answers 200.
func (h *Handler) DebugValidate(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		writeJSON(w, http.StatusOK, ParseFailure{
			Error:   err.Error(),
			Message: "Failed to parse request body",
		})
		return
	}
	writeJSON(w, http.StatusOK, h.validate.Execute(payload))
}

// ListModels handles GET /models.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	versions, err := h.listModels.Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

// Schema handles GET /schema.
func (h *Handler) Schema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.schema)
}

func readPayload(w http.ResponseWriter, r *http.Request) (*model.Payload, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return model.ParsePayload(data)
}

// bodyError maps a body decoding failure to a validation error on ["body"].
func bodyError(err error) error {
	fe := model.FieldError{
		Loc:     []string{"body"},
		Message: model.InvalidJSONMessage,
		Type:    model.FieldErrorInvalidJSON,
	}
	if errors.Is(err, model.ErrNotObject) {
		fe.Message = model.NotObjectMessage
		fe.Type = model.FieldErrorNotObject
	}
	return &model.ValidationError{Fields: []model.FieldError{fe}}
}
