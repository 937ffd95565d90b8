package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/TradeCoach/internal/analyze"
	"github.com/Alias1177/TradeCoach/models"
)

// Server is the HTTP API exposing trade analysis and the coach chat.
type Server struct {
	httpServer *http.Server
	source     models.TradeSource
	responder  models.Responder
	logger     zerolog.Logger
}

// NewServer creates a new API server bound to addr.
func NewServer(addr string, source models.TradeSource, responder models.Responder) *Server {
	s := &Server{
		source:    source,
		responder: responder,
		logger:    log.With().Str("component", "api_server").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/trade-analysis", s.handleTradeAnalysis)
	mux.HandleFunc("/api/chat", s.handleChat)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           corsMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving HTTP requests.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("API server listening")
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("API server stopped")
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// corsMiddleware allows browser clients from any origin to hit the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Error encoding response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": detail}); err != nil {
		s.logger.Error().Err(err).Msg("Error encoding error response")
	}
}

// GET /health — liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /api/trade-analysis?user_id=U — fetch, analyze and return the stats.
func (s *Server) handleTradeAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	trades, err := s.source.GetTrades(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error fetching trades")
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error analyzing trades: %v", err))
		return
	}

	s.writeJSON(w, analyze.Trades(trades))
}

// POST /api/chat — answer the latest user message with coaching advice.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	// Most recent user message wins; assistant messages are skipped.
	var lastMessage string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			lastMessage = req.Messages[i].Content
			break
		}
	}
	if lastMessage == "" {
		s.writeJSON(w, models.ChatResponse{Response: "I didn't receive a message to respond to."})
		return
	}

	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	trades, err := s.source.GetTrades(r.Context(), req.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", req.UserID).Msg("Error fetching trades")
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing chat: %v", err))
		return
	}

	analysis := analyze.Trades(trades)
	response := s.responder.Respond(r.Context(), lastMessage, analysis)

	s.writeJSON(w, models.ChatResponse{
		Response: response,
		Analysis: &analysis,
	})
}
