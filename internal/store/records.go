package store

import (
	"context"
	"encoding/json"
	"errors"

	"nag-cli/internal/model"
)

// LoadRecords reads the persisted journal. A missing or unparseable value is treated as
// an empty journal; only storage errors are returned.
func (s Store) LoadRecords(ctx context.Context) ([]model.ThoughtRecord, error) {
	raw, err := s.Get(ctx, KeyRecords)
	if errors.Is(err, ErrNotFound) {
		return []model.ThoughtRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []model.ThoughtRecord
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []model.ThoughtRecord{}, nil
	}
	if out == nil {
		out = []model.ThoughtRecord{}
	}
	return out, nil
}

// SaveRecords replaces the persisted journal with records as a single value.
func (s Store) SaveRecords(ctx context.Context, records []model.ThoughtRecord) error {
	if records == nil {
		records = []model.ThoughtRecord{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.Put(ctx, KeyRecords, string(b))
}

// LoadVersion returns the last-seen deployed version; {version: 0} if none was recorded
// or the stored value is unreadable.
func (s Store) LoadVersion(ctx context.Context) (model.Version, error) {
	raw, err := s.Get(ctx, KeyVersion)
	if errors.Is(err, ErrNotFound) {
		return model.Version{}, nil
	}
	if err != nil {
		return model.Version{}, err
	}
	v, err := model.ParseVersion([]byte(raw))
	if err != nil {
		return model.Version{}, nil
	}
	return v, nil
}

func (s Store) SaveVersion(ctx context.Context, v model.Version) error {
	if err := v.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, KeyVersion, string(b))
}
