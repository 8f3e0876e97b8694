// Package relay accepts pointer, touch and wheel input from a browser page
// over a websocket, so the globe can be driven from a phone or a trackpad.
//
// Frames are decoded on the connection's goroutine and handed to the render
// loop through Events; listeners are only ever called by Dispatch on the
// loop's goroutine.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fortio.org/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/input"
	"github.com/taigrr/globe/pkg/interaction"
)

const (
	maxFrameSize = 4096
	eventBuffer  = 64
	writeTimeout = 5 * time.Second
)

// ErrBusy is returned to a second client while one is connected.
var ErrBusy = errors.New("relay already has a client")

// Server is a websocket input surface serving one client at a time.
type Server struct {
	input.Hub

	cfg      config.Relay
	upgrader websocket.Upgrader
	events   chan input.Event
	done     chan struct{}
	once     sync.Once
	open     atomic.Bool

	mu      sync.Mutex
	conn    *websocket.Conn
	session string
	server  *http.Server
}

var _ interaction.Surface = (*Server)(nil)

// New creates a server for cfg. It accepts listeners once it listens.
func New(cfg config.Relay) *Server {
	if cfg.Path == "" {
		cfg.Path = "/input"
	}
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The page may be opened from any host on the local network.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		events: make(chan input.Event, eventBuffer),
		done:   make(chan struct{}),
	}
}

// AddListener registers l, normally through Controller.AddSurface. It fails
// with interaction.ErrSurfaceUnavailable until the server listens, and after
// Close.
func (s *Server) AddListener(l input.Listener) error {
	if !s.open.Load() {
		return interaction.ErrSurfaceUnavailable
	}
	s.Add(l)
	return nil
}

func (s *Server) RemoveListener(l input.Listener) { s.Remove(l) }

// Events delivers decoded input. The render loop passes each event to
// Dispatch.
func (s *Server) Events() <-chan input.Event { return s.events }

// Session returns the id of the connected client, or "" when idle.
func (s *Server) Session() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Handler serves the input page on / and the websocket on the configured
// path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.serveWS)
	mux.HandleFunc("/", s.servePage)
	return mux
}

// Listen binds the configured address and serves until ctx is done or
// Close is called. It returns the bound address.
func (s *Server) Listen(ctx context.Context) (net.Addr, error) {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("relay listen %s: %w", s.cfg.Addr, err)
	}
	srv := s.start(ln)
	go func() {
		if err := s.run(ctx, srv, ln); err != nil {
			log.Errf("relay: %v", err)
		}
	}()
	return ln.Addr(), nil
}

// Serve serves on ln until ctx is done or Close is called.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	return s.run(ctx, s.start(ln), ln)
}

func (s *Server) start(ln net.Listener) *http.Server {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()
	select {
	case <-s.done:
	default:
		s.open.Store(true)
	}
	log.Infof("relay: listening on http://%s%s", ln.Addr(), s.cfg.Path)
	return srv
}

func (s *Server) run(ctx context.Context, srv *http.Server, ln net.Listener) error {
	select {
	case <-s.done:
		return ln.Close()
	default:
	}
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close stops the server and disconnects the client.
func (s *Server) Close() error {
	var err error
	s.once.Do(func() {
		s.open.Store(false)
		close(s.done)
		s.mu.Lock()
		srv, conn := s.server, s.conn
		s.mu.Unlock()
		if conn != nil {
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "viewer closed")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
			conn.Close()
		}
		if srv != nil {
			err = srv.Close()
		}
	})
	return err
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	busy := s.conn != nil
	s.mu.Unlock()
	if busy {
		http.Error(w, ErrBusy.Error(), http.StatusConflict)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("relay: upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	session := uuid.NewString()
	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		rejectBusy(conn, r.RemoteAddr)
		return
	}
	s.conn, s.session = conn, session
	s.mu.Unlock()
	log.Infof("relay: client %s connected from %s", session, r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		s.conn, s.session = nil, ""
		s.mu.Unlock()
		conn.Close()
		log.Infof("relay: client %s disconnected", session)
	}()
	if err := s.write(conn, Reply{Type: "hello", Session: session}); err != nil {
		log.Warnf("relay: hello to %s: %v", session, err)
		return
	}
	s.readLoop(conn, session)
}

// rejectBusy closes a connection that lost the race for the client slot.
func rejectBusy(conn *websocket.Conn, remote string) {
	msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, ErrBusy.Error())
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout)); err != nil {
		log.LogVf("relay: busy close to %s: %v", remote, err)
	}
	conn.Close()
}

func (s *Server) readLoop(conn *websocket.Conn, session string) {
	conn.SetReadLimit(maxFrameSize)
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("relay: read from %s: %v", session, err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		ev, err := decode(data)
		if err != nil {
			log.LogVf("relay: bad frame from %s: %v", session, err)
			if err := s.write(conn, Reply{Type: "error", Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func decode(data []byte) (input.Event, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return input.Event{}, fmt.Errorf("decode frame: %w", err)
	}
	return f.Event()
}

func (s *Server) write(conn *websocket.Conn, r Reply) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(r)
}
