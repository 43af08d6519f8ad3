// Package agent is the background caching agent: it keeps offline copies of the remote
// assets the client reads and tells every open client when a new build is deployed.
package agent

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"nag-cli/internal/store"

	"github.com/google/uuid"
)

// AssetCache stores offline copies of fetched assets.
type AssetCache interface {
	PutAsset(ctx context.Context, a store.CachedAsset) error
	GetAsset(ctx context.Context, url string) (store.CachedAsset, error)
}

// HelpAsset is the help document path for a locale base ("en", "hu"). Clients must request
// the same path so the precached copy is found offline.
func HelpAsset(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = "en"
	}
	return "/help.md?" + url.Values{"lang": {lang}}.Encode()
}

// Assets lists what install precaches for a client reading help in lang.
func Assets(lang string) []string {
	return []string{"/version.json", HelpAsset(lang)}
}

// DefaultAssets are precached on install when Config.Assets is nil.
var DefaultAssets = Assets("en")

type Config struct {
	// BaseURL is the deployment origin. Empty disables install and the push feed;
	// the agent then only relays local messages.
	BaseURL string
	Assets  []string
	// Transport is the network transport wrapped by the cache (http.DefaultTransport).
	Transport http.RoundTripper
	Logger    *slog.Logger
	// MaxBackoff caps the reconnect delay of the push feed.
	MaxBackoff time.Duration
	// ClientBuffer is the per-client queue length before messages are dropped.
	ClientBuffer int
}

type Agent struct {
	cfg       Config
	log       *slog.Logger
	transport *cachingTransport

	mu      sync.Mutex
	clients map[uuid.UUID]chan Message
	once    sync.Once
}

// Client is one subscriber, usually one open view.
type Client struct {
	ID uuid.UUID
	C  <-chan Message
}

func New(cfg Config, cache AssetCache) *Agent {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	if cfg.Assets == nil {
		cfg.Assets = DefaultAssets
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.ClientBuffer <= 0 {
		cfg.ClientBuffer = 16
	}
	log := cfg.Logger.With("component", "agent")
	return &Agent{
		cfg: cfg,
		log: log,
		transport: &cachingTransport{
			next:  cfg.Transport,
			cache: cache,
			log:   log,
			now:   time.Now,
		},
		clients: map[uuid.UUID]chan Message{},
	}
}

// Transport is the round tripper clients use for remote assets so reads work offline.
func (a *Agent) Transport() http.RoundTripper { return a.transport }

// Subscribe registers a client. cancel closes its channel.
func (a *Agent) Subscribe() (Client, func()) {
	id := uuid.New()
	ch := make(chan Message, a.cfg.ClientBuffer)

	a.mu.Lock()
	a.clients[id] = ch
	a.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			if c, ok := a.clients[id]; ok {
				delete(a.clients, id)
				close(c)
			}
		})
	}
	return Client{ID: id, C: ch}, cancel
}

// Broadcast posts msg to every client without blocking. A client whose queue is full
// misses the message.
func (a *Agent) Broadcast(msg Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, ch := range a.clients {
		select {
		case ch <- msg:
		default:
			a.log.Warn("client queue full; dropping message", "client", id, "msg", msg.Msg)
		}
	}
}

// Register starts the install and activate lifecycle once, then the push feed, on a
// background goroutine and returns at once. activate is broadcast after install has
// finished, whatever the network did. The feed stops when ctx ends. Later calls do nothing.
func (a *Agent) Register(ctx context.Context) {
	a.once.Do(func() {
		go func() {
			a.HandleEvent(ctx, Event{Event: EventInstall})
			a.HandleEvent(ctx, Event{Event: EventActivate})
			if strings.TrimSpace(a.cfg.BaseURL) != "" {
				a.runFeed(ctx)
			}
		}()
	})
}

// HandleEvent reacts to one lifecycle event.
func (a *Agent) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Event {
	case EventInstall:
		a.log.Info("agent installing")
		a.install(ctx)
	case EventActivate:
		a.log.Info("agent activated")
		a.Broadcast(Message{Msg: MsgActivate})
	case EventFetch:
		a.log.Debug("agent fetch event", "payload", string(ev.Payload))
	case EventUpdateFound:
		a.log.Info("agent update found", "payload", string(ev.Payload))
		a.Broadcast(Message{Msg: MsgUpdateFound, Payload: ev.Payload})
	default:
		a.log.Debug("agent ignoring event", "event", ev.Event)
	}
}

func (a *Agent) install(ctx context.Context) {
	base := strings.TrimRight(strings.TrimSpace(a.cfg.BaseURL), "/")
	if base == "" {
		return
	}
	client := &http.Client{Transport: a.transport, Timeout: 10 * time.Second}
	for _, p := range a.cfg.Assets {
		u := base + p
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			a.log.Warn("precache: bad url", "url", u, "err", err)
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			a.log.Warn("precache failed", "url", u, "err", err)
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		a.log.Debug("precached", "url", u, "status", resp.StatusCode)
	}
}

// UpdateFoundPayload is the payload the server attaches to updateFound.
type UpdateFoundPayload struct {
	Version float64 `json:"version"`
}
