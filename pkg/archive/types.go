package archive

import (
	"context"
	"time"
)

// Record is one archived translation.
type Record struct {
	ID string `json:"id"` // UUID v4

	// Document is the name of the translated document.
	Document string `json:"document"`

	// File is the path the document was read from, if any.
	File string `json:"file,omitempty"`

	Target     string   `json:"target"`
	Translated string   `json:"translated,omitempty"`
	Parameters []string `json:"parameters,omitempty"`

	// QueryHash is the SHA-256 of the canonical rendering of the query. It
	// groups translations of the same query across targets and runs.
	QueryHash string `json:"query_hash,omitempty"`

	// Error is the translation failure, empty on success.
	Error string `json:"error,omitempty"`

	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Failed reports whether the record holds a failed translation.
func (r *Record) Failed() bool {
	return r.Error != ""
}

// Query filters archived records. Zero fields match everything.
type Query struct {
	Target   string `json:"target,omitempty"`
	Document string `json:"document,omitempty"`

	// Since and Until bound CreatedAt, both inclusive.
	Since *time.Time `json:"since,omitempty"`
	Until *time.Time `json:"until,omitempty"`

	// FailedOnly restricts the result to failed translations.
	FailedOnly bool `json:"failed_only,omitempty"`

	// Limit caps the number of records; 0 means DefaultLimit.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// DefaultLimit is the page size used when Query.Limit is zero.
const DefaultLimit = 100

// Store persists translation records. Query results are ordered newest
// first.
type Store interface {
	// Save persists a record. The record must carry an ID.
	Save(ctx context.Context, record *Record) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Query returns the records matching q.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// Count returns the number of records matching q, ignoring its
	// pagination.
	Count(ctx context.Context, q *Query) (int64, error)

	// DeleteOlderThan deletes records created before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldest deletes the n oldest records.
	DeleteOldest(ctx context.Context, n int64) (int64, error)

	Close() error
}
