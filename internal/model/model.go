package model

import "time"

// ThoughtRecord is one journal entry. JSON field names match the records exported by the
// browser version of the app, so exports from either can be read back.
type ThoughtRecord struct {
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified,omitzero"`

	Situation          string `json:"situation"`
	Emotion            string `json:"emotion"`
	AutomaticThought   string `json:"automaticThought"`
	EvidenceSupporting string `json:"evidenceSupporting"`
	EvidenceAgainst    string `json:"evidenceAgainst"`
	AlternativeThought string `json:"alternativeThought"`
	Outcome            string `json:"outcome"`
}

// NewRecord returns an empty record with both timestamps set to now.
func NewRecord(now time.Time) ThoughtRecord {
	now = now.UTC()
	return ThoughtRecord{Created: now, Modified: now}
}

// HasModified reports whether the record carries a modified timestamp.
// Records written by very old builds may only have created.
func (r ThoughtRecord) HasModified() bool {
	return !r.Modified.IsZero()
}

// Touch stamps Modified for a save. Modified never moves backwards and never precedes
// Created, even if the wall clock does.
func (r *ThoughtRecord) Touch(now time.Time) {
	now = now.UTC()
	if now.Before(r.Created) {
		now = r.Created
	}
	if now.Before(r.Modified) {
		now = r.Modified
	}
	r.Modified = now
}
