package agent

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// FeedPath is the server endpoint streaming lifecycle events to agents.
const FeedPath = "/agent"

// FeedURL turns an http(s) origin into the ws(s) URL of its push feed.
func FeedURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + FeedPath
	return u.String(), nil
}

func (a *Agent) runFeed(ctx context.Context) {
	feed, err := FeedURL(a.cfg.BaseURL)
	if err != nil {
		a.log.Warn("push feed disabled", "err", err)
		return
	}
	backoff := time.Second
	for {
		connected := a.consumeFeed(ctx, feed)
		if ctx.Err() != nil {
			return
		}
		if connected {
			backoff = time.Second
		}
		a.log.Debug("push feed reconnecting", "in", backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > a.cfg.MaxBackoff {
			backoff = a.cfg.MaxBackoff
		}
	}
}

// consumeFeed reads events until the connection drops. It reports whether a connection
// was established at all.
func (a *Agent) consumeFeed(ctx context.Context, feed string) bool {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, feed, nil)
	if err != nil {
		a.log.Debug("push feed dial failed", "url", feed, "err", err)
		return false
	}
	defer conn.Close()
	a.log.Info("push feed connected", "url", feed)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() == nil {
				a.log.Info("push feed closed", "err", err)
			}
			return true
		}
		if ev.Event != EventUpdateFound {
			a.log.Debug("push feed: ignoring event", "event", ev.Event)
			continue
		}
		a.HandleEvent(ctx, ev)
	}
}
