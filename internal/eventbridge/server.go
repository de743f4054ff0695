package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kingrea/spells-for-muggle/internal/skill"
	"github.com/kingrea/spells-for-muggle/internal/speech"
)

// ServerStatus reports runtime lifecycle states for the HTTP server.
type ServerStatus string

const (
	StatusStarting ServerStatus = "starting"
	StatusReady    ServerStatus = "ready"
	StatusDraining ServerStatus = "draining"
)

// ErrServerDisabled is returned by Start when settings disable the bridge.
var ErrServerDisabled = errors.New("eventbridge: server disabled")

// Server wraps the HTTP listener and handlers backing the skill endpoint.
type Server struct {
	settings    Settings
	handler     Handler
	logger      Logger
	clock       func() time.Time
	catalogSize int
	replay      *ReplayCache
	inflight    singleflight.Group

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	status    ServerStatus
	startTime time.Time
}

// Option customizes server construction.
type Option func(*Server)

// WithHandler sets the skill that answers events.
func WithHandler(h Handler) Option {
	return func(s *Server) {
		if h != nil {
			s.handler = h
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control uptime.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithCatalogSize sets the spell count reported by /health.
func WithCatalogSize(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.catalogSize = n
		}
	}
}

// NewServer prepares a bridge server using the provided settings. Without
// WithHandler every event ends the session with an empty response.
func NewServer(settings Settings, opts ...Option) *Server {
	settings.normalize()
	s := &Server{
		settings: settings,
		handler: HandlerFunc(func(context.Context, skill.Event) (speech.Envelope, error) {
			return speech.Empty(), nil
		}),
		logger: nopLogger{},
		clock:  func() time.Time { return time.Now().UTC() },
		status: StatusStarting,
		replay: NewReplayCache(settings.ReplayWindow),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the HTTP routes without binding a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/skill", s.handleSkill)
	return mux
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("eventbridge: server is nil")
	}
	if !s.settings.Enabled {
		return ErrServerDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("eventbridge: server already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("eventbridge: listen %s: %w", addr, err)
	}
	s.listener = listener
	s.startTime = s.now()
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server
	s.status = StatusReady
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("eventbridge: serve error: %v", err)
		}
	}()
	s.logger.Printf("eventbridge: listening on %s", listener.Addr().String())
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight requests to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}
	s.status = StatusDraining
	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(deadline); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// BaseURL returns the HTTP base URL (scheme + host:port) for the running server.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		return s.settings.URL()
	}
	return "http://" + addr
}

// Status reports the server's lifecycle state.
func (s *Server) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Server) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func (s *Server) uptimeSeconds() int64 {
	s.mu.RLock()
	started := s.startTime
	s.mu.RUnlock()
	if started.IsZero() {
		return 0
	}
	return int64(s.now().Sub(started).Seconds())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", fmt.Sprintf("%s, %s", http.MethodGet, http.MethodHead))
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, Health{
		Status:        string(s.Status()),
		Version:       ProtocolVersion,
		CatalogSize:   s.catalogSize,
		UptimeSeconds: s.uptimeSeconds(),
	})
}

func (s *Server) handleSkill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
		return
	}
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, CodeInvalidEvent, "empty body")
		return
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "payload exceeds limit")
			return
		}
		writeError(w, http.StatusBadRequest, CodeInvalidEvent, "unable to read body")
		return
	}
	var evt skill.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidEvent, "invalid JSON")
		return
	}
	evt.Normalize()
	if err := evt.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidEvent, err.Error())
		return
	}
	requestID := evt.Request.RequestID
	if authz, ok := s.handler.(Authorizer); ok {
		if err := authz.Authorize(evt); err != nil {
			s.writeHandlerError(w, requestID, err)
			return
		}
	}
	key := replayKey(evt)
	if cached, ok := s.replay.Lookup(key); ok {
		s.logger.Printf("eventbridge: replaying response requestId=%s", requestID)
		writeRaw(w, http.StatusOK, cached)
		return
	}
	// A retry arriving while the first call runs waits for its answer. The
	// shared call must not die with whichever client disconnects first.
	ctx := context.WithoutCancel(r.Context())
	result, err, shared := s.inflight.Do(key, func() (any, error) {
		if cached, ok := s.replay.Lookup(key); ok {
			return cached, nil
		}
		envelope, err := s.handler.Handle(ctx, evt)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(envelope)
		if err != nil {
			return nil, fmt.Errorf("eventbridge: encode response: %w", err)
		}
		s.replay.Store(key, encoded)
		return encoded, nil
	})
	if err != nil {
		s.writeHandlerError(w, requestID, err)
		return
	}
	if shared {
		s.logger.Printf("eventbridge: shared in-flight response requestId=%s", requestID)
	}
	writeRaw(w, http.StatusOK, result.([]byte))
}

func (s *Server) writeHandlerError(w http.ResponseWriter, requestID string, err error) {
	status, code := classify(err)
	s.logger.Printf("eventbridge: handler error requestId=%s status=%d: %v", requestID, status, err)
	message := "event processing failed"
	if status != http.StatusInternalServerError {
		message = err.Error()
	}
	writeError(w, status, code, message)
}

// replayKey scopes a request id to its application and session so one
// caller cannot read another conversation's cached answer.
func replayKey(evt skill.Event) string {
	return evt.Session.Application.ApplicationID + "\x00" + evt.Session.SessionID + "\x00" + evt.Request.RequestID
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
