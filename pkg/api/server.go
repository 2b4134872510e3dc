// pkg/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/flowgen/flowgen/pkg/action"
	"github.com/flowgen/flowgen/pkg/capture"
	"github.com/flowgen/flowgen/pkg/codegen"
	"github.com/flowgen/flowgen/pkg/config"
	"github.com/flowgen/flowgen/pkg/discovery"
	"github.com/flowgen/flowgen/pkg/pageobject"
	"github.com/flowgen/flowgen/pkg/session"
)

var errEmptySelector = errors.New("selector must not be empty")

// Server exposes the recorder and generator over HTTP.
type Server struct {
	sess   *session.Session
	cfg    config.Config
	logger *log.Logger
	router *mux.Router
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(logger *log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the HTTP front end over a recording session.
func NewServer(sess *session.Session, cfg config.Config, opts ...ServerOption) *Server {
	s := &Server{
		sess:   sess,
		cfg:    cfg,
		logger: log.New(io.Discard, "", 0),
		router: mux.NewRouter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/recording/start", s.handleStart).Methods("POST")
	s.router.HandleFunc("/recording/stop", s.handleStop).Methods("POST")
	s.router.HandleFunc("/recording/clear", s.handleClear).Methods("POST")
	s.router.HandleFunc("/recording/events", s.handleEvent).Methods("POST")
	s.router.HandleFunc("/recording/actions", s.handleActions).Methods("GET")
	s.router.HandleFunc("/recording/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/generate", s.handleGenerate).Methods("POST")
	s.router.HandleFunc("/pageobjects", s.handlePageObjects).Methods("GET")
	s.router.HandleFunc("/discovery/scan", s.handleScan).Methods("GET")
	s.router.HandleFunc("/highlight", s.handleHighlight).Methods("POST")
}

// ServeHTTP implements the http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the server on the specified address
func (s *Server) Start(addr string) error {
	s.logger.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, s)
}

// Request/Response types
type GenerateRequest struct {
	Framework  string          `json:"framework,omitempty"`
	Mode       string          `json:"mode,omitempty"`
	IndentSize int             `json:"indent_size,omitempty"`
	UseTabs    bool            `json:"use_tabs,omitempty"`
	QuoteStyle string          `json:"quote_style,omitempty"`
	Name       string          `json:"name,omitempty"`
	Actions    []action.Action `json:"actions,omitempty"`
}

type GenerateResponse struct {
	Framework string `json:"framework"`
	Mode      string `json:"mode"`
	Filename  string `json:"filename"`
	Code      string `json:"code"`
}

type StatusResponse struct {
	Active  bool `json:"active"`
	Actions int  `json:"actions"`
}

type HighlightRequest struct {
	Selector string `json:"selector"`
	Clear    bool   `json:"clear,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Start(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrAlreadyRecording) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}

	s.logger.Printf("recording started")
	writeJSON(w, http.StatusOK, StatusResponse{Active: true})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if !s.sess.Active() {
		writeError(w, http.StatusConflict, session.ErrNotRecording)
		return
	}

	acts := s.sess.Stop()
	s.logger.Printf("recording stopped, %d actions", len(acts))
	writeJSON(w, http.StatusOK, acts)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.sess.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if !s.sess.Active() {
		writeError(w, http.StatusConflict, session.ErrNotRecording)
		return
	}

	var ev action.RawEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.sess.Observe(ev)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Actions())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Active:  s.sess.Active(),
		Actions: len(s.sess.Actions()),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	opts := s.cfg.Codegen()
	if req.Framework != "" {
		opts.Framework = req.Framework
	}
	if req.IndentSize != 0 {
		opts.IndentSize = req.IndentSize
	}
	if req.UseTabs {
		opts.UseTabs = true
	}
	if req.QuoteStyle != "" {
		opts.SingleQuotes = req.QuoteStyle == "single"
	}

	mode := codegen.ParseMode(req.Mode)
	if req.Mode == "" {
		mode = codegen.ParseMode(s.cfg.Mode)
	}

	acts := req.Actions
	if len(acts) == 0 {
		acts = s.sess.Actions()
	}

	gen := codegen.NewGenerator(opts)
	resp := GenerateResponse{
		Framework: gen.Framework(),
		Mode:      string(mode),
		Filename:  gen.Filename(req.Name),
		Code:      gen.Generate(acts, mode),
	}

	s.logger.Printf("generated %s code for %d actions", resp.Framework, len(acts))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePageObjects(w http.ResponseWriter, r *http.Request) {
	pages := pageobject.Extract(s.sess.Actions())
	if pages == nil {
		pages = []*pageobject.PageObject{}
	}
	writeJSON(w, http.StatusOK, pages)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	root := r.URL.Query().Get("root")
	if root == "" {
		root = s.cfg.ProjectRoot
	}

	suite, err := discovery.NewScanner(root, discovery.WithLogger(s.logger)).Scan()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, suite)
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req HighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Selector == "" && !req.Clear {
		writeError(w, http.StatusBadRequest, errEmptySelector)
		return
	}

	h, err := capture.ConnectHighlighter(s.cfg.CapturePort)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	if req.Clear {
		err = h.Clear()
	} else {
		err = h.Highlight(req.Selector)
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
