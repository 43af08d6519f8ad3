package agent

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"nag-cli/internal/store"
)

const (
	cacheHeader     = "X-Nag-Cache"
	maxCachedAssetB = 4 << 20
)

// cachingTransport handles the agent's fetch event: network first, remembering every
// successful GET, and answering from the cache when the network is unreachable.
type cachingTransport struct {
	next  http.RoundTripper
	cache AssetCache
	log   *slog.Logger
	now   func() time.Time
}

func (t *cachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.next.RoundTrip(req)
	}
	key := req.URL.String()
	t.log.Debug("agent fetch", "url", key)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		cached, cerr := t.cache.GetAsset(req.Context(), key)
		if cerr != nil {
			if !errors.Is(cerr, store.ErrNotFound) {
				t.log.Warn("agent cache read failed", "url", key, "err", cerr)
			}
			return nil, err
		}
		t.log.Info("serving cached asset", "url", key, "storedAt", cached.StoredAt)
		return cachedResponse(req, cached), nil
	}

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	body, rerr := io.ReadAll(io.LimitReader(resp.Body, maxCachedAssetB+1))
	_ = resp.Body.Close()
	if rerr != nil {
		return nil, fmt.Errorf("read %s: %w", key, rerr)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if len(body) > maxCachedAssetB {
		return resp, nil
	}
	if err := t.cache.PutAsset(req.Context(), store.CachedAsset{
		URL:         key,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		StoredAt:    t.now(),
	}); err != nil {
		t.log.Warn("agent cache write failed", "url", key, "err", err)
	}
	return resp, nil
}

func cachedResponse(req *http.Request, a store.CachedAsset) *http.Response {
	h := http.Header{}
	if a.ContentType != "" {
		h.Set("Content-Type", a.ContentType)
	}
	h.Set(cacheHeader, "hit")
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", a.Status, http.StatusText(a.Status)),
		StatusCode:    a.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(a.Body)),
		ContentLength: int64(len(a.Body)),
		Request:       req,
	}
}
