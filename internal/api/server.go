// Package api exposes the trade parser over HTTP for downstream position-management services.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eddiefleurent/tradelog/internal/config"
	"github.com/eddiefleurent/tradelog/internal/metrics"
	"github.com/eddiefleurent/tradelog/internal/parser"
	"github.com/eddiefleurent/tradelog/internal/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes caps request bodies; order lines are short.
const maxBodyBytes = 1 << 20

type Server struct {
	router    *chi.Mux
	server    *http.Server
	parser    *parser.Parser
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	logger    *logrus.Logger
	addr      string
	authToken string
	timeout   time.Duration
	maxBatch  int
	workers   int
}

type parseRequest struct {
	Input string `json:"input"`
}

type batchRequest struct {
	Inputs []string `json:"inputs"`
}

type batchResponse struct {
	Results []report.ResultView `json:"results"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// NewServer wires the parser, its metrics and the registry they are exported from.
func NewServer(cfg *config.Config, p *parser.Parser, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *logrus.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		parser:    p,
		metrics:   m,
		gatherer:  gatherer,
		logger:    logger,
		addr:      cfg.Addr(),
		authToken: cfg.Server.AuthToken,
		timeout:   cfg.RequestTimeout(),
		maxBatch:  cfg.Server.MaxBatch,
		workers:   cfg.Parser.Workers,
	}

	s.setupRoutes()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.timeout))

	if s.authToken != "" {
		s.router.Use(s.authMiddleware)
	}

	s.router.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route("/api/trades", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/parse/batch", s.handleParseBatch)
	})
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
		}).Debug("request")
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}

		if token != s.authToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) Start() error {
	s.logger.Infof("Starting trade parser API on %s", s.addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}
	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	trade, err := s.parser.Parse(req.Input)
	s.metrics.Observe(trade, err, time.Since(start))

	if err != nil {
		reason := parser.Reason(err)
		s.logger.WithFields(logrus.Fields{
			"reason": reason,
			"input":  req.Input,
		}).Warn("Rejected trade line")
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Reason: reason})
		return
	}

	s.logger.WithFields(logrus.Fields{
		"symbol":      trade.Symbol,
		"spread_type": trade.SpreadType,
		"legs":        len(trade.Legs),
	}).Debug("Parsed trade line")
	s.writeJSON(w, http.StatusOK, trade)
}

func (s *Server) handleParseBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if len(req.Inputs) > s.maxBatch {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Error: "batch exceeds server.max_batch",
		})
		return
	}

	start := time.Now()
	results, err := s.parser.ParseAll(r.Context(), req.Inputs, s.workers)
	if err != nil {
		s.logger.WithError(err).Warn("Batch parse interrupted")
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	s.metrics.ObserveResults(results, time.Since(start))

	resp := batchResponse{Results: make([]report.ResultView, len(results))}
	failed := 0
	for i, res := range results {
		resp.Results[i] = report.View(res)
		if !res.OK() {
			failed++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"inputs": len(results),
		"failed": failed,
	}).Info("Parsed trade batch")
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return errors.New("invalid JSON body")
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}
