// Package server exposes the projection engine over HTTP. It is the boundary
// surface for external collaborators: callers POST a YAML plan and receive
// the computed projection as JSON.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/previsio/previsio/internal/config"
	"github.com/previsio/previsio/internal/projection"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the projection API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadSize <= 0 {
		maxUploadSize = 256 * 1024
	}
	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api/projection", h.handleProjection)
	r.Get("/api/version", h.handleVersion)
	r.Get("/healthz", h.handleHealth)

	return r
}

type projectionResponse struct {
	Plan      string                          `json:"plan"`
	Horizon   int                             `json:"horizon"`
	Duration  string                          `json:"duration"`
	Scenarios []projection.ScenarioProjection `json:"scenarios"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r.Body); err != nil {
		h.respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("failed to read plan (limit %d bytes): %v", h.maxUploadSize, err))
		return
	}

	conf, err := decodePlan(buf.Bytes())
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading plan data, %v", err))
		return
	}

	if err := conf.Validate(); err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid plan: %v", err))
		return
	}

	result, err := projection.GetProjection(h.logger, *conf)
	if err != nil {
		h.logger.Error("projection failed",
			zap.String("op", "server.handleProjection"),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("projection failed: %v", err))
		return
	}

	h.writeJSON(w, http.StatusOK, projectionResponse{
		Plan:      result.PlanName,
		Horizon:   result.Horizon,
		Duration:  time.Since(start).String(),
		Scenarios: result.Scenarios,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodePlan parses a YAML plan payload into a configuration with defaults
// applied. The payload is first decoded as a generic map so malformed YAML
// surfaces a shape error rather than a cryptic unmarshal failure.
func decodePlan(payload []byte) (*config.Configuration, error) {
	var shape map[string]interface{}
	if err := yaml.Unmarshal(payload, &shape); err != nil {
		return nil, err
	}
	if shape == nil {
		return nil, fmt.Errorf("plan payload is empty")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(payload)); err != nil {
		return nil, err
	}

	var conf config.Configuration
	if err := v.Unmarshal(&conf); err != nil {
		return nil, err
	}
	conf.ApplyDefaults()
	return &conf, nil
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string) {
	h.logger.Debug("request rejected",
		zap.String("op", "server.respondError"),
		zap.Int("status", status),
		zap.String("message", message),
	)
	h.writeJSON(w, status, errorResponse{Error: message})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
