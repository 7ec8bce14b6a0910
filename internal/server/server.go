// Package server exposes the analyzer over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"complexify/internal/config"
	"complexify/internal/models"
)

// Estimator is the analysis entry point the server needs.
type Estimator interface {
	Analyze(source string) models.ComplexityEstimate
	Fingerprint() string
}

type Server struct {
	estimator Estimator
	config    config.ServerConfig
	logger    *slog.Logger
}

func New(estimator Estimator, cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{estimator: estimator, config: cfg, logger: logger}
}

type analyzeRequest struct {
	Code *string `json:"code"`
}

type statusResponse struct {
	Status      string `json:"status"`
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Models      string `json:"models"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Handler returns the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleStatus)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	return s.logRequests(s.cors(mux))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:      s.config.Title + " API is running",
		Title:       s.config.Title,
		Version:     s.config.Version,
		Description: s.config.Description,
		Models:      s.estimator.Fingerprint(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.config.MaxBodyKB)*1024)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Detail: "request body too large"})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "invalid JSON body: " + err.Error()})
		return
	}
	if req.Code == nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "field required: code"})
		return
	}

	writeJSON(w, http.StatusOK, s.estimator.Analyze(*req.Code))
}

func (s *Server) cors(next http.Handler) http.Handler {
	anyOrigin := slices.Contains(s.config.CORSOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (anyOrigin || slices.Contains(s.config.CORSOrigins, origin)) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
					h.Set("Access-Control-Allow-Headers", req)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
