// Package corpus loads keyword-bearing documents from files, Postgres, or S3.
package corpus

import (
	"context"
	"errors"
)

var (
	ErrNoDocuments   = errors.New("source returned no documents")
	ErrMissingColumn = errors.New("keywords column not found")
)

// Document is one record of the input corpus. Only Keywords feeds the
// extraction pipeline; the rest is carried for display and export.
type Document struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Keywords string `json:"keywords"`
	Year     int    `json:"year,omitempty"`
	Origin   string `json:"origin,omitempty"`
}

// Source loads documents from somewhere
type Source interface {
	// Name identifies the source in logs and health checks
	Name() string
	// Load reads the full document set
	Load(ctx context.Context) ([]Document, error)
}
