package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FileOptions controls how a delimited file maps onto documents
type FileOptions struct {
	Path string

	// Delimiter separates columns; 0 sniffs from the extension
	// (.tsv reads as tab, everything else as comma)
	Delimiter rune

	// Header treats the first row as column names. When set, columns
	// named id, title, keywords and year override the index mapping
	// below.
	Header bool

	IDColumn       int
	TitleColumn    int
	KeywordsColumn int

	// YearColumn is optional; -1 disables it
	YearColumn int
}

// DefaultFileOptions maps the conventional id,title,keywords layout
func DefaultFileOptions(path string) FileOptions {
	return FileOptions{
		Path:           path,
		Header:         true,
		IDColumn:       0,
		TitleColumn:    1,
		KeywordsColumn: 2,
		YearColumn:     -1,
	}
}

// FileSource reads documents from a local CSV or TSV file
type FileSource struct {
	opts FileOptions
}

// NewFileSource creates a source for the given file
func NewFileSource(opts FileOptions) *FileSource {
	return &FileSource{opts: opts}
}

// Name identifies the source in logs and health checks
func (s *FileSource) Name() string {
	return "file"
}

// Load reads the whole file into documents
func (s *FileSource) Load(ctx context.Context) ([]Document, error) {
	f, err := os.Open(s.opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	docs, err := parseDelimited(ctx, f, s.opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.opts.Path, err)
	}
	return docs, nil
}

// sniffDelimiter picks the column separator from the file extension
func sniffDelimiter(opts FileOptions) rune {
	if opts.Delimiter != 0 {
		return opts.Delimiter
	}
	if strings.HasSuffix(strings.ToLower(opts.Path), ".tsv") {
		return '\t'
	}
	return ','
}

// parseDelimited turns delimited rows into documents. Shared by the
// file and S3 sources.
func parseDelimited(ctx context.Context, r io.Reader, opts FileOptions) ([]Document, error) {
	reader := csv.NewReader(r)
	reader.Comma = sniffDelimiter(opts)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	idCol := opts.IDColumn
	titleCol := opts.TitleColumn
	keywordsCol := opts.KeywordsColumn
	yearCol := opts.YearColumn

	row := 0
	if opts.Header {
		header, err := reader.Read()
		if err == io.EOF {
			return nil, ErrNoDocuments
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		row++

		for i, name := range header {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "id":
				idCol = i
			case "title":
				titleCol = i
			case "keywords":
				keywordsCol = i
			case "year":
				yearCol = i
			}
		}
	}

	var docs []Document
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row+1, err)
		}
		row++

		if keywordsCol >= len(record) {
			return nil, fmt.Errorf("row %d: %w", row, ErrMissingColumn)
		}

		doc := Document{
			Keywords: strings.TrimSpace(record[keywordsCol]),
			Origin:   "file",
		}
		if idCol >= 0 && idCol < len(record) {
			doc.ID = strings.TrimSpace(record[idCol])
		}
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("doc-%d", len(docs)+1)
		}
		if titleCol >= 0 && titleCol < len(record) && titleCol != keywordsCol {
			doc.Title = strings.TrimSpace(record[titleCol])
		}
		if yearCol >= 0 && yearCol < len(record) {
			if y, err := strconv.Atoi(strings.TrimSpace(record[yearCol])); err == nil {
				doc.Year = y
			}
		}

		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return docs, nil
}
