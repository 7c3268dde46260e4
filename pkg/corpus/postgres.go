package corpus

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPGQuery is the query used when none is configured. Custom
// queries must return the same three text columns.
const DefaultPGQuery = `SELECT id, title, keywords FROM documents ORDER BY id`

// PGOptions configures the Postgres-backed corpus source
type PGOptions struct {
	URL   string
	Query string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultPGOptions returns the standard pool sizing for the given URL
func DefaultPGOptions(url string) PGOptions {
	return PGOptions{
		URL:             url,
		Query:           DefaultPGQuery,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 1 * time.Minute,
	}
}

// PGSource reads documents from a PostgreSQL table
type PGSource struct {
	pool *pgxpool.Pool
	opts PGOptions
}

// NewPGSource connects a pooled Postgres source and verifies the
// connection
func NewPGSource(ctx context.Context, opts PGOptions) (*PGSource, error) {
	if opts.Query == "" {
		opts.Query = DefaultPGQuery
	}

	config, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pooling configuration
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}
	if opts.MaxConnLifetime > 0 {
		config.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &PGSource{pool: pool, opts: opts}, nil
}

// Name identifies the source in logs and health checks
func (s *PGSource) Name() string {
	return "postgres"
}

// Load runs the configured query and scans documents
func (s *PGSource) Load(ctx context.Context) ([]Document, error) {
	rows, err := s.pool.Query(ctx, s.opts.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc := Document{Origin: "postgres"}

		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Keywords); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return docs, nil
}

// Ping checks database connectivity
func (s *PGSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool
func (s *PGSource) Close() error {
	s.pool.Close()
	return nil
}
