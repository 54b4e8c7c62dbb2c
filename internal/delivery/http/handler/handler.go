package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/schema-scanner/internal/delivery/http/request"
	"github.com/user/schema-scanner/internal/delivery/http/response"
	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
	"github.com/user/schema-scanner/internal/usecase"
)

// Pinger is a dependency whose health is reported by /api/health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	scanner usecase.Scanner
	deps    map[string]Pinger
	logger  *zap.Logger
}

// NewHandler creates the API handler. deps are named dependencies checked by the health endpoint.
func NewHandler(scanner usecase.Scanner, deps map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		scanner: scanner,
		deps:    deps,
		logger:  logger,
	}
}

func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req request.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.scanner.AnalyzeSinglePage(r.Context(), req.URL, req.Options.ToScanOptions())
	if err != nil {
		h.writeUseCaseError(w, "Failed to analyze page", err)
		return
	}

	status := http.StatusOK
	if record.Status == entity.ScanStatusFailed {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, record)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	var req request.HealthCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.scanner.HealthCheck(r.Context(), req.URL)
	if err != nil {
		h.writeUseCaseError(w, "Failed to check page", err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) HandleSubmitScan(w http.ResponseWriter, r *http.Request) {
	var req request.SiteScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	scanID, err := h.scanner.StartSiteScan(r.Context(), req.URL, req.Options.ToScanOptions())
	if err != nil {
		h.writeUseCaseError(w, "Failed to start site scan", err)
		return
	}

	resp := response.SubmitScanResponse{
		Status:  string(entity.ScanStatusPending),
		Message: "Site scan accepted",
		ScanID:  scanID,
	}
	h.writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) HandleGetScan(w http.ResponseWriter, r *http.Request) {
	record, err := h.scanner.GetScanRecord(r.Context(), chi.URLParam(r, "scanID"))
	if err != nil {
		h.writeUseCaseError(w, "Failed to load scan", err)
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

// HandleGetLatestScan reports the newest scan for the url query parameter.
func (h *Handler) HandleGetLatestScan(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	record, err := h.scanner.GetLatestScan(r.Context(), rawURL)
	if err != nil {
		h.writeUseCaseError(w, "Failed to load scan status", err)
		return
	}

	resp := response.ScanStatusResponse{
		ScanID:       record.ID,
		URL:          record.URL,
		Type:         string(record.Type),
		Status:       string(record.Status),
		PagesScanned: len(record.Pages),
		CreatedAt:    record.CreatedAt,
		CompletedAt:  record.CompletedAt,
		Error:        record.Error,
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleServiceHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"status": "ok"}
	healthy := true
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			healthStatus[name] = "unhealthy"
			healthy = false
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !healthy {
		healthStatus["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	h.writeJSON(w, http.StatusOK, healthStatus)
}

// writeUseCaseError maps use case errors to status codes; anything unknown is a 500.
func (h *Handler) writeUseCaseError(w http.ResponseWriter, logMsg string, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidURL), errors.Is(err, usecase.ErrInvalidScanID):
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrScanNotFound):
		h.writeJSONError(w, "Scan not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrScanQueueFull), errors.Is(err, usecase.ErrScannerStopped):
		h.writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, repository.ErrFetchTimeout),
		errors.Is(err, repository.ErrNavigationFailed),
		errors.Is(err, repository.ErrBadStatus):
		h.writeJSONError(w, err.Error(), http.StatusBadGateway)
	default:
		h.logger.Error(logMsg, zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
