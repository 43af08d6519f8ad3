package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nag-cli/internal/model"
)

// VersionPath is where the deployment origin publishes its version descriptor.
const VersionPath = "/version.json"

type Fetcher interface {
	FetchVersion(ctx context.Context) (model.Version, error)
}

// HTTPFetcher reads the version descriptor from BaseURL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPFetcher(baseURL string, rt http.RoundTripper) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Transport: rt, Timeout: 10 * time.Second},
	}
}

func (f *HTTPFetcher) URL() string {
	return strings.TrimRight(strings.TrimSpace(f.BaseURL), "/") + VersionPath
}

func (f *HTTPFetcher) FetchVersion(ctx context.Context) (model.Version, error) {
	if strings.TrimSpace(f.BaseURL) == "" {
		return model.Version{}, fmt.Errorf("fetch version: no server configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(), nil)
	if err != nil {
		return model.Version{}, err
	}
	// Bypass intermediaries; the caching transport still serves a copy when offline.
	req.Header.Set("Cache-Control", "no-cache")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return model.Version{}, fmt.Errorf("fetch version: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Version{}, fmt.Errorf("fetch version: unexpected status %s", resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return model.Version{}, fmt.Errorf("fetch version: %w", err)
	}
	return model.ParseVersion(b)
}
