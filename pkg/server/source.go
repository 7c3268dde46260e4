package server

import (
	"context"
	"fmt"

	"github.com/dd0wney/keygraph/pkg/config"
	"github.com/dd0wney/keygraph/pkg/corpus"
)

// BuildSource constructs the corpus source the configuration names.
// Postgres and S3 sources verify connectivity before returning.
func BuildSource(ctx context.Context, cfg *config.Config) (corpus.Source, error) {
	switch cfg.Corpus.Source {
	case config.SourceFile:
		opts := corpus.DefaultFileOptions(cfg.Corpus.File.Path)
		opts.Header = cfg.Corpus.File.Header
		if cfg.Corpus.File.Delimiter != "" {
			opts.Delimiter = []rune(cfg.Corpus.File.Delimiter)[0]
		}
		return corpus.NewFileSource(opts), nil

	case config.SourcePostgres:
		opts := corpus.DefaultPGOptions(cfg.Corpus.Postgres.URL)
		if cfg.Corpus.Postgres.Query != "" {
			opts.Query = cfg.Corpus.Postgres.Query
		}
		return corpus.NewPGSource(ctx, opts)

	case config.SourceS3:
		return corpus.NewS3Source(ctx, corpus.S3Options{
			Bucket:       cfg.Corpus.S3.Bucket,
			Key:          cfg.Corpus.S3.Key,
			Region:       cfg.Corpus.S3.Region,
			Endpoint:     cfg.Corpus.S3.Endpoint,
			AccessKey:    cfg.Corpus.S3.AccessKey,
			SecretKey:    cfg.Corpus.S3.SecretKey,
			UsePathStyle: cfg.Corpus.S3.UsePathStyle,
		})

	default:
		return nil, fmt.Errorf("unknown corpus source %q", cfg.Corpus.Source)
	}
}
