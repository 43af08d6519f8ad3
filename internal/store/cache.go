package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CachedAsset is one offline copy of a remote resource.
type CachedAsset struct {
	URL         string
	Status      int
	ContentType string
	Body        []byte
	StoredAt    time.Time
}

func (s Store) PutAsset(ctx context.Context, a CachedAsset) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	storedAt := a.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now()
	}
	body := a.Body
	if body == nil {
		body = []byte{}
	}
	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO asset_cache(url, status, content_type, body, stored_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		a.URL, a.Status, a.ContentType, body, storedAt.UTC().UnixMilli()); err != nil {
		return fmt.Errorf("cache %s: %w", a.URL, err)
	}
	return nil
}

// GetAsset returns the cached copy of url, or ErrNotFound.
func (s Store) GetAsset(ctx context.Context, url string) (CachedAsset, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return CachedAsset{}, err
	}
	defer db.Close()

	var (
		a  CachedAsset
		ms int64
	)
	err = db.QueryRowContext(ctx, `SELECT url, status, content_type, body, stored_at_unixms FROM asset_cache WHERE url = ?`, url).
		Scan(&a.URL, &a.Status, &a.ContentType, &a.Body, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return CachedAsset{}, ErrNotFound
	}
	if err != nil {
		return CachedAsset{}, fmt.Errorf("cached %s: %w", url, err)
	}
	a.StoredAt = time.UnixMilli(ms).UTC()
	return a, nil
}

// ClearAssets drops every cached asset.
func (s Store) ClearAssets(ctx context.Context) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM asset_cache`)
	return err
}
