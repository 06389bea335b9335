// Package handlers exposes the unwrap service over HTTP/JSON and provides
// the middleware chain (request id, logging, recovery, metrics).
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"phaseflow/pkg/apperror"
	"phaseflow/pkg/config"
	"phaseflow/services/unwrap-svc/internal/service"
)

// Handler routes the unwrap API.
type Handler struct {
	svc          *service.UnwrapService
	maxBodyBytes int64
	version      string
}

// New creates the handler.
func New(svc *service.UnwrapService, cfg *config.Config) *Handler {
	return &Handler{
		svc:          svc,
		maxBodyBytes: cfg.HTTP.MaxBodyBytes,
		version:      cfg.App.Version,
	}
}

// Routes builds the service mux wrapped in the middleware chain.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/unwrap", h.handleUnwrap)
	mux.HandleFunc("GET /v1/history", h.handleHistory)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	return Chain(mux, RequestID, Recovery, Logging, Metrics)
}

func (h *Handler) handleUnwrap(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req service.UnwrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Wrap(apperror.CodeInvalidArgument, "invalid request body", err))
		return
	}

	resp, err := h.svc.Unwrap(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	records, err := h.svc.History(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// errorBody is the JSON shape of error responses.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = string(apperror.CodeOf(err))
	body.Error.Message = err.Error()

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body.Error.Message = appErr.Message
		body.Error.Field = appErr.Field
	}

	writeJSON(w, apperror.HTTPStatus(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
