// Package api exposes the orchestrator and executor over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/contractdesk/contractdesk/agent/contract"
	recordx "github.com/contractdesk/contractdesk/agent/record"
)

// Config describes the HTTP listener.
type Config struct {
	Addr            string        `envconfig:"ADDR" split_words:"true" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

// Server wires the conversation runner and executor into routes.
type Server struct {
	runner   contract.ConversationRunner
	executor contract.OperationExecutor
	store    recordx.Store
	http     *http.Server
	conf     Config
}

func NewServer(conf Config, runner contract.ConversationRunner, exec contract.OperationExecutor, store recordx.Store) *Server {
	s := &Server{
		runner:   runner,
		executor: exec,
		store:    store,
		conf:     conf,
	}
	s.http = &http.Server{
		Addr:         conf.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  conf.ReadTimeout,
		WriteTimeout: conf.WriteTimeout,
	}
	return s
}

// Routes builds the router; exposed separately so tests can drive it
// through httptest without a listener.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/contracts", s.handleListContracts)
	r.Post("/chat", s.handleChat)
	r.Post("/operations/execute", s.handleExecute)
	return r
}

// ListenAndServe blocks until the context is cancelled, then drains.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.conf.Addr).Msg("http server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.conf.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

type chatRequest struct {
	Messages          []contract.ChatMessage `json:"messages"`
	CurrentDateAnchor string                 `json:"currentDateAnchor"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := s.runner.Run(r.Context(), req.Messages, req.CurrentDateAnchor)
	if err != nil {
		switch {
		case errors.Is(err, contract.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, contract.ErrModelInvoke), errors.Is(err, contract.ErrSchemaViolation):
			log.Error().Err(err).Msg("conversation run failed")
			writeError(w, http.StatusBadGateway, "model provider failure")
		default:
			log.Error().Err(err).Msg("conversation run failed")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type executeRequest struct {
	OperationName     string          `json:"operationName"`
	Arguments         json.RawMessage `json:"arguments"`
	CurrentDateAnchor string          `json:"currentDateAnchor"`
}

// handleExecute runs a single operation directly, bypassing the model.
// Operation-level failures still answer 200: the envelope carries the
// outcome.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.OperationName == "" {
		writeError(w, http.StatusBadRequest, "operationName is required")
		return
	}

	now := time.Time{}
	if req.CurrentDateAnchor != "" {
		parsed, err := time.Parse(recordx.DateLayout, req.CurrentDateAnchor)
		if err != nil {
			writeError(w, http.StatusBadRequest, "currentDateAnchor must be YYYY-MM-DD")
			return
		}
		now = parsed
	}

	result := s.executor.Execute(r.Context(), contract.OperationRequest{
		RequestID:    middleware.GetReqID(r.Context()),
		Name:         req.OperationName,
		RawArguments: string(req.Arguments),
	}, now)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := s.store.GetAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list contracts failed")
		writeError(w, http.StatusInternalServerError, "contract store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"contracts": recordx.CalculateAll(contracts, recordx.Today()),
		"count":     len(contracts),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
