package share

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File writes the payload data into Dir and reports it as a file:// URL.
type File struct {
	Dir string
	Now func() time.Time
}

func (f File) Share(_ context.Context, p Payload) (Result, error) {
	if strings.TrimSpace(f.Dir) == "" {
		return Result{}, ErrUnsupported
	}
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return Result{}, err
	}
	name := fmt.Sprintf("thought-records-%s.json", now().UTC().Format("20060102-150405"))
	path := filepath.Join(f.Dir, name)
	if err := os.WriteFile(path, p.Data, 0o600); err != nil {
		return Result{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return Result{Target: "file", URL: u.String()}, nil
}
