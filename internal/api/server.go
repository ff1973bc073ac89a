// Package api exposes the Job Service over HTTP: job submission, status
// lookup, and a health check, for use by the `layoutctl serve` command.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/StevenJWChen/layout-automation/internal/service"
	"github.com/StevenJWChen/layout-automation/pkg/model"
	"github.com/StevenJWChen/layout-automation/pkg/utils"
)

// Server is the HTTP front end for a running Service.
type Server struct {
	svc    *service.Service
	port   int
	logger utils.Logger
	server *http.Server
}

// NewServer creates a new API server bound to svc.
func NewServer(svc *service.Service, port int, logger utils.Logger) *Server {
	return &Server{svc: svc, port: port, logger: logger}
}

// Start starts the HTTP server. It blocks until the server is shut down.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", s.handleJobs)
	mux.HandleFunc("/jobs/", s.handleJobByUUID)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("Starting job service API at http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var doc model.JobDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, fmt.Sprintf("invalid job document: %v", err), http.StatusBadRequest)
		return
	}

	job, err := s.svc.SubmitJob(r.Context(), &doc)
	if err != nil {
		s.logger.Error("failed to submit job: %v", err)
		http.Error(w, "failed to submit job", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleJobByUUID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobUUID := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if jobUUID == "" {
		http.Error(w, "missing job uuid", http.StatusBadRequest)
		return
	}

	job, err := s.svc.GetJob(r.Context(), jobUUID)
	if err != nil {
		http.Error(w, fmt.Sprintf("job not found: %v", err), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.HealthCheck(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
