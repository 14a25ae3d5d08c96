// Package httpx exposes a game session over a JSON API and a websocket stream.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tic_tac_chec/internal/game"
	"tic_tac_chec/internal/session"
	"tic_tac_chec/internal/stats"
)

// Server wires the HTTP layer to one game session and the stats store.
type Server struct {
	ctrl  *session.Controller
	stats *stats.Store
	hub   *Hub
	srvMu sync.Mutex
	srv   *http.Server
}

const (
	maxJSONBodyBytes int64 = 1 << 20
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

// NewServer builds a Server and routes session updates to the websocket hub.
func NewServer(ctrl *session.Controller, store *stats.Store) *Server {
	s := &Server{
		ctrl:  ctrl,
		stats: store,
		hub:   NewHub(),
	}
	ctrl.SetPublisher(s.hub.Publish)
	return s
}

// Listen starts the HTTP server and the websocket hub. It returns after Close.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	done := make(chan struct{})
	defer close(done)
	go s.hub.Run(done)

	log.Printf("[server] HTTP listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.withJSON(s.handleState))
		r.Post("/select", s.withJSON(s.handleSelect))
		r.Post("/deselect", s.withJSON(s.handleDeselect))
		r.Post("/move", s.withJSON(s.handleMove))
		r.Post("/reset", s.withJSON(s.handleReset))
		r.Post("/ai/move", s.withJSON(s.handleAIMove))
		r.Get("/stats", s.withJSON(s.handleStats))
		r.Delete("/stats", s.withJSON(s.handleStatsReset))
	})

	r.Get("/ws", s.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("X-Content-Type-Options", "nosniff")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// decodeBody fills v from the request body. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return true
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// statusFor maps session errors to HTTP codes: conflicts with the game's progress
// are 409, malformed or foreign requests are 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameOver),
		errors.Is(err, session.ErrNotYourTurn),
		errors.Is(err, session.ErrNoMoves),
		errors.Is(err, session.ErrClosed):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// ---- API: state ----

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"state": s.ctrl.Status()})
}

// ---- API: select ----

type selectBody struct {
	Piece string      `json:"piece"`
	From  game.Origin `json:"from"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var body selectBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Piece == "" {
		writeError(w, http.StatusBadRequest, "missing piece")
		return
	}
	if from, ok := body.From.Position(); ok && !from.InBounds() {
		writeError(w, http.StatusBadRequest, "invalid from square")
		return
	}
	dests, err := s.ctrl.Select(body.Piece, body.From)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if dests == nil {
		dests = []game.Position{}
	}
	writeJSON(w, map[string]any{"state": s.ctrl.Status(), "validMoves": dests})
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Deselect()
	writeJSON(w, map[string]any{"state": s.ctrl.Status()})
}

// ---- API: move ----

type moveBody struct {
	To *game.Position `json:"to"`
}

type moveResponse struct {
	Accepted bool        `json:"accepted"`
	Event    game.Event  `json:"event"`
	Move     *game.Move  `json:"move,omitempty"`
	Captured *game.Piece `json:"captured,omitempty"`
	Winner   *game.Color `json:"winner,omitempty"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var body moveBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.To == nil || !body.To.InBounds() {
		writeError(w, http.StatusBadRequest, "invalid to square")
		return
	}
	res, err := s.ctrl.Move(*body.To)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if !res.Accepted {
		writeError(w, http.StatusConflict, fmt.Sprintf("move rejected: %v", res.Reason))
		return
	}
	out := moveResponse{Accepted: true, Event: res.Event, Move: &res.Move, Captured: res.Captured}
	if res.Win != nil {
		out.Winner = &res.Win.Winner
	}
	writeJSON(w, map[string]any{"state": s.ctrl.Status(), "result": out})
}

// ---- API: computer move ----

func (s *Server) handleAIMove(w http.ResponseWriter, r *http.Request) {
	m, err := s.ctrl.PlayAI()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, map[string]any{"state": s.ctrl.Status(), "move": m})
}

// ---- API: reset ----

type resetBody struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var body resetBody
	if !decodeBody(w, r, &body) {
		return
	}
	cfg := s.ctrl.Config()
	mode, difficulty := cfg.Mode, cfg.Difficulty
	if body.Mode != "" {
		m, ok := game.ParseMode(body.Mode)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid mode %q", body.Mode))
			return
		}
		mode = m
	}
	if body.Difficulty != "" {
		d, ok := game.ParseDifficulty(body.Difficulty)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid difficulty %q", body.Difficulty))
			return
		}
		difficulty = d
	}
	s.ctrl.Reset(mode, difficulty)
	writeJSON(w, map[string]any{"state": s.ctrl.Status()})
}

// ---- API: stats ----

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"stats": s.stats.Snapshot()})
}

func (s *Server) handleStatsReset(w http.ResponseWriter, r *http.Request) {
	s.stats.Reset()
	writeJSON(w, map[string]any{"stats": s.stats.Snapshot()})
}
