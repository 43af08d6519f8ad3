package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nag-cli/internal/agent"
	"nag-cli/internal/model"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg ServerConfig) (*Server, *httptest.Server) {
	t.Helper()
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestNewServer_RequiresAddr(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	require.Error(t, err)

	_, err = NewServer(ServerConfig{Addr: ":1", Version: -1})
	require.Error(t, err)
}

func TestServer_VersionFromFlag(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{Version: 3})

	resp, body := get(t, ts.URL+"/version.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.JSONEq(t, `{"version":3}`, body)
}

func TestServer_VersionFileIsReadPerRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1}`), 0o644))
	_, ts := newTestServer(t, ServerConfig{VersionFile: path})

	_, body := get(t, ts.URL+"/version.json")
	assert.JSONEq(t, `{"version":1}`, body)

	require.NoError(t, os.WriteFile(path, []byte(`{"version":2,"build":"abc"}`), 0o644))
	_, body = get(t, ts.URL+"/version.json")
	assert.JSONEq(t, `{"version":2}`, body)

	require.NoError(t, os.Remove(path))
	resp, _ := get(t, ts.URL+"/version.json")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_Help(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{})

	resp, body := get(t, ts.URL+"/help.md")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/markdown"))
	assert.NotEmpty(t, strings.TrimSpace(body))

	resp, body = get(t, ts.URL+"/help")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<main>")
	assert.Contains(t, body, "<h1")
}

func TestServer_CORS(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{CORSOrigins: []string{"https://app.example"}})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/version.json", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSetLast_FirstObservationIsNotAChange(t *testing.T) {
	s, err := NewServer(ServerConfig{Addr: ":0"})
	require.NoError(t, err)

	assert.False(t, s.setLast(model.Version{Version: 0}))
	assert.False(t, s.setLast(model.Version{Version: 0}))
	assert.True(t, s.setLast(model.Version{Version: 1}))
	assert.False(t, s.setLast(model.Version{Version: 1}))
}

func TestServer_FeedBroadcastsVersionChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":0}`), 0o644))
	s, ts := newTestServer(t, ServerConfig{VersionFile: path, PollInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	feed, err := agent.FeedURL(ts.URL)
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(feed, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.last != nil
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`{"version":1}`), 0o644))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var ev agent.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, agent.EventUpdateFound, ev.Event)

	var p agent.UpdateFoundPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &p))
	assert.Equal(t, 1.0, p.Version)
}

func TestServer_FeedRejectsForeignOrigin(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{})

	feed, err := agent.FeedURL(ts.URL)
	require.NoError(t, err)
	h := http.Header{}
	h.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(feed, h)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
}

