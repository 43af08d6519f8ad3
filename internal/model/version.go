package model

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Version is the deployed build marker served at /version.json and remembered locally.
// Descriptors may carry more fields; only Version is read. Any JSON number is accepted
// and versions are compared for equality only, so 2.5 or 1e3 work as well as 3.
type Version struct {
	Version float64 `json:"version"`
}

func (v Version) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Version, validation.Min(0.0)),
	)
}

// ParseVersion decodes and validates a version descriptor.
func ParseVersion(b []byte) (Version, error) {
	var v Version
	if err := json.Unmarshal(b, &v); err != nil {
		return Version{}, fmt.Errorf("decode version: %w", err)
	}
	if err := v.Validate(); err != nil {
		return Version{}, fmt.Errorf("invalid version: %w", err)
	}
	return v, nil
}
