// Package server exposes the conversation pipeline over HTTP and WebSocket.
// It owns session lifecycle; the dialog controllers it drives know nothing
// about transport.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/skriptgen/skriptgen/internal/db"
	"github.com/skriptgen/skriptgen/internal/dialog"
)

// Reindexer rebuilds the retrieval index from the document corpus.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// Config holds server configuration.
type Config struct {
	Host      string
	Port      int
	OutputDir string // directory generated scripts are written to
	AllowAll  bool   // allow all CORS origins (dev mode)
}

// Server drives conversations over HTTP and WebSocket.
type Server struct {
	cfg        Config
	sessions   *SessionStore
	database   *db.DB
	reindexer  Reindexer
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. database and reindexer may be nil; the corresponding
// endpoints then degrade gracefully.
func New(cfg Config, sessions *SessionStore, database *db.DB, reindexer Reindexer) *Server {
	s := &Server{
		cfg:       cfg,
		sessions:  sessions,
		database:  database,
		reindexer: reindexer,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/start-conversation", s.handleStartConversation)
		r.Post("/send-message", s.handleSendMessage)
		r.Post("/save-script", s.handleSaveScript)
		r.Post("/preview-script", s.handlePreviewScript)
		r.Post("/reset-conversation", s.handleResetConversation)
		r.Post("/reindex", s.handleReindex)
		r.Get("/download/{filename}", s.handleDownload)
		r.Get("/stats", s.handleStats)
	})

	r.Get("/ws", s.handleWebSocket)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("skriptgen server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// session resolves the session id from a request body, writing the error
// response itself when the session is unknown.
func (s *Server) session(w http.ResponseWriter, sessionID string) (*Session, bool) {
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return nil, false
	}
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()

	sess.Lock()
	question := sess.Controller.GetNextQuestion(r.Context())
	sess.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": sess.ID,
		"message":    question,
	})
}

type sendMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	sess, ok := s.session(w, req.SessionID)
	if !ok {
		return
	}

	sess.Lock()
	reply := sess.Controller.ProcessUserResponse(r.Context(), req.Message)
	done := sess.Controller.Done()
	sess.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"response":        reply,
		"script_complete": done,
	})
}

type saveScriptRequest struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
}

func (s *Server) handleSaveScript(w http.ResponseWriter, r *http.Request) {
	var req saveScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Format == "" {
		req.Format = dialog.FormatText
	}
	sess, ok := s.session(w, req.SessionID)
	if !ok {
		return
	}

	sess.Lock()
	path, err := sess.Controller.SaveScript(s.cfg.OutputDir, req.Format)
	organization := sess.Controller.Organization()
	audience := sess.Controller.Audience()
	sess.Unlock()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	if s.database != nil {
		if _, err := s.database.RecordScript(db.ScriptRecord{
			SessionID:    sess.ID,
			Organization: organization,
			Audience:     audience,
			Format:       req.Format,
			Path:         path,
		}); err != nil {
			log.Printf("server: recording script: %v", err)
		}
	}

	filename := filepath.Base(path)
	writeJSON(w, http.StatusOK, map[string]string{
		"filename":     filename,
		"download_url": "/api/download/" + filename,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || filename != filepath.Base(filename) {
		writeError(w, http.StatusBadRequest, "invalid filename")
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.OutputDir, filename))
}

type previewScriptRequest struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
}

func (s *Server) handlePreviewScript(w http.ResponseWriter, r *http.Request) {
	var req previewScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, ok := s.session(w, req.SessionID)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	var content string
	var err error
	switch req.Format {
	case "html":
		content, err = sess.Controller.GenerateHTMLScript()
	default:
		content, err = sess.Controller.GetScriptSummary()
	}
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

type resetConversationRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleResetConversation(w http.ResponseWriter, r *http.Request) {
	var req resetConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, ok := s.session(w, req.SessionID)
	if !ok {
		return
	}

	sess.Lock()
	sess.Controller.Reset()
	question := sess.Controller.GetNextQuestion(r.Context())
	sess.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": sess.ID,
		"message":    question,
	})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if s.reindexer == nil {
		writeError(w, http.StatusServiceUnavailable, "reindexing not configured")
		return
	}
	count, err := s.reindexer.Reindex(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents_indexed": count})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"active_sessions": s.sessions.Len(),
	}
	if s.database != nil {
		if n, err := s.database.CountScripts(); err == nil {
			stats["saved_scripts"] = n
		}
	}
	writeJSON(w, http.StatusOK, stats)
}
