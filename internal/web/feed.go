package web

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"nag-cli/internal/agent"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			// Native agents do not send Origin.
			return true
		}
		host := strings.TrimSpace(r.Host)
		return strings.Contains(origin, "://"+host)
	},
}

const feedWriteTimeout = 5 * time.Second

type feedConn struct {
	conn *websocket.Conn
	send chan agent.Event
}

type feedHub struct {
	log *slog.Logger

	mu    sync.Mutex
	conns map[*feedConn]struct{}
}

func newFeedHub(log *slog.Logger) *feedHub {
	return &feedHub{log: log, conns: map[*feedConn]struct{}{}}
}

func (h *feedHub) add(c *feedConn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *feedHub) remove(c *feedConn) {
	h.mu.Lock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *feedHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *feedHub) broadcast(ev agent.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		select {
		case c.send <- ev:
		default:
			h.log.Warn("agent feed backlog full; dropping event", "remote", c.conn.RemoteAddr().String())
		}
	}
}

func (h *feedHub) closeAll() {
	h.mu.Lock()
	conns := make([]*feedConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	for _, c := range conns {
		_ = c.conn.Close()
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an error status.
		s.log.Debug("agent feed upgrade failed", "err", err)
		return
	}
	c := &feedConn{conn: conn, send: make(chan agent.Event, 8)}
	s.hub.add(c)
	s.log.Info("agent connected", "remote", conn.RemoteAddr().String())

	// Reader: agents never send anything meaningful; reading detects disconnects.
	go func() {
		defer s.hub.remove(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer conn.Close()
	for ev := range c.send {
		_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			s.log.Debug("agent feed write failed", "err", err)
			return
		}
	}
}
