// Package web is the browser shell of the dashboard: one HTML page, and one
// websocket per open tab carrying that tab's session.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/wdiview/pkg/chart"
	"github.com/vanderheijden86/wdiview/pkg/dashboard"
	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Largest control change accepted from a browser.
	maxMessageSize = 4096
	// Grace period for open connections on shutdown.
	shutdownTimeout = 5 * time.Second
)

// Server serves the page, the websocket and the JSON API for one dashboard.
type Server struct {
	dash     *dashboard.Dashboard
	page     *template.Template
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*dashboard.Session
}

// New prepares a server for d.
func New(d *dashboard.Dashboard) (*Server, error) {
	if d == nil {
		return nil, errors.New("web: nil dashboard")
	}
	page, err := parsePage()
	if err != nil {
		return nil, err
	}
	return &Server{
		dash:     d,
		page:     page,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 16 * 1024},
		sessions: make(map[string]*dashboard.Session),
	}, nil
}

// Handler routes every endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /api/controls", s.handleControls)
	mux.HandleFunc("GET /api/figure/{output}", s.handleFigure)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Sessions returns the number of open websocket sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. ready, if non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	if ready != nil {
		ready(ln.Addr())
	}
	debug.Log("web: listening on %s", ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, newPageData(s.dash)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Log("web: upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	id := uuid.NewString()
	sess := s.dash.NewSession()
	s.register(id, sess)
	defer s.unregister(id)

	if err := writeJSON(conn, initMessage(id, sess.State(), sess.Render())); err != nil {
		debug.Log("web: session %s: init: %v", id, err)
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				debug.Log("web: session %s: read: %v", id, err)
			}
			return
		}

		var msg ClientMessage
		var reply ServerMessage
		switch err := json.Unmarshal(raw, &msg); {
		case err != nil:
			reply = errorMessage("", fmt.Errorf("malformed message: %w", err))
		case msg.Type != MsgChange:
			reply = errorMessage(msg.Control, fmt.Errorf("unsupported message type %q", msg.Type))
		default:
			upd, err := sess.Apply(dashboard.Change{Control: msg.Control, Value: msg.Value})
			if err != nil {
				reply = errorMessage(msg.Control, err)
			} else {
				reply = updateMessage(upd)
			}
		}
		if err := writeJSON(conn, reply); err != nil {
			debug.Log("web: session %s: write: %v", id, err)
			return
		}
	}
}

func (s *Server) register(id string, sess *dashboard.Session) {
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	metrics.ActiveSessions.Inc()
	debug.Log("web: session %s opened", id)
}

func (s *Server) unregister(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	metrics.ActiveSessions.Add(-1)
	debug.Log("web: session %s closed", id)
}

// handleFigure renders one output for the defaults overridden by query
// parameters named after control IDs, e.g. ?year-slider=2000.
func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	out := dashboard.OutputID(r.PathValue("output"))
	if _, bound := s.dash.Registry().Owner(out); !bound && s.dash.Static(out) == nil {
		http.Error(w, fmt.Sprintf("unknown output %q", out), http.StatusNotFound)
		return
	}

	sess := s.dash.NewSession()
	q := r.URL.Query()
	for _, id := range dashboard.ControlIDs() {
		if !q.Has(string(id)) {
			continue
		}
		if _, err := sess.Apply(dashboard.Change{Control: id, Value: q.Get(string(id))}); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	raw, err := chart.Encode(sess.Render()[out])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRaw(w, raw)
}

func (s *Server) handleControls(w http.ResponseWriter, _ *http.Request) {
	writeValue(w, struct {
		Controls []dashboard.Control   `json:"controls"`
		Defaults dashboard.ControlState `json:"defaults"`
		Headline dashboard.Headline     `json:"headline"`
	}{s.dash.Controls(), s.dash.Defaults(), s.dash.Headline()})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeValue(w, metrics.TakeSnapshot())
}

func writeJSON(conn *websocket.Conn, msg ServerMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Type, err)
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, raw)
}

func writeValue(w http.ResponseWriter, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRaw(w, raw)
}

func writeRaw(w http.ResponseWriter, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}
