package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ShareClipboard = "clipboard"
	ShareFile      = "file"
	ShareNone      = "none"
)

type GlobalConfig struct {
	// Locale selects the prompt catalog ("en", "hu", ...). Empty means use LANG.
	Locale string `json:"locale,omitempty"`

	// ServerURL is the origin serving /version.json, /help.md and the agent feed.
	ServerURL string `json:"serverUrl,omitempty"`

	// Share selects how exports are handed off: clipboard|file|none.
	Share string `json:"share,omitempty"`

	// ExportDir is where the file share target writes exports. Defaults to <config>/exports.
	ExportDir string `json:"exportDir,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme forces the palette: light|dark|auto.
	Theme string `json:"theme,omitempty"`
}

func (c GlobalConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Share, validation.In(ShareClipboard, ShareFile, ShareNone)),
		validation.Field(&c.ServerURL, validation.By(validateHTTPURL)),
		validation.Field(&c.TUI),
	)
}

func (c TUIConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Theme, validation.In("light", "dark", "auto")),
	)
}

func validateHTTPURL(v any) error {
	s, _ := v.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be an http or https URL")
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.nag).
	if v := strings.TrimSpace(os.Getenv("NAG_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nag"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the global config. A missing or corrupt file yields the zero config;
// a file that parses but fails validation is an error so typos are not silently ignored.
func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return &GlobalConfig{}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// ExportDirOrDefault resolves where file exports are written.
func (c GlobalConfig) ExportDirOrDefault() (string, error) {
	if d := strings.TrimSpace(c.ExportDir); d != "" {
		return d, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "exports"), nil
}
