// Package keywords turns raw document keyword fields into frequency and
// co-occurrence statistics.
package keywords

import (
	"sort"
	"strings"

	"github.com/dd0wney/keygraph/pkg/corpus"
)

// Extractor computes keyword statistics over a document set
type Extractor struct {
	opts ExtractorOptions
}

// NewExtractor creates an extractor with the given options. Zero-value
// option fields fall back to the defaults.
func NewExtractor(opts ExtractorOptions) *Extractor {
	defaults := DefaultExtractorOptions()
	if len(opts.Delimiters) == 0 {
		opts.Delimiters = defaults.Delimiters
	}
	if opts.PairJoiner == "" {
		opts.PairJoiner = defaults.PairJoiner
	}
	return &Extractor{opts: opts}
}

// Extract computes per-keyword stats across docs. The result is sorted by
// count descending; ties keep first-encountered order. Percentage is the
// share of the total document count, including documents whose keyword field
// is empty. Output depends only on the input slice, never on map iteration
// order.
func (e *Extractor) Extract(docs []corpus.Document) []KeywordStat {
	if len(docs) == 0 {
		return []KeywordStat{}
	}

	counts := make(map[string]int)
	keywordOrder := make([]string, 0)

	pairCounts := make(map[string]int)
	pairOrder := make([]string, 0)

	for _, doc := range docs {
		tokens := e.Tokenize(doc.Keywords)

		for _, token := range tokens {
			if _, seen := counts[token]; !seen {
				keywordOrder = append(keywordOrder, token)
			}
			counts[token]++
		}

		// Every index pair i<j counts once, so a pair repeated within one
		// document accumulates per instance
		for i := 0; i < len(tokens); i++ {
			for j := i + 1; j < len(tokens); j++ {
				key := e.pairKey(tokens[i], tokens[j])
				if _, seen := pairCounts[key]; !seen {
					pairOrder = append(pairOrder, key)
				}
				pairCounts[key]++
			}
		}
	}

	connections := make(map[string][]Connection, len(keywordOrder))
	for _, key := range pairOrder {
		a, b, ok := strings.Cut(key, e.opts.PairJoiner)
		if !ok || a == b {
			// Identical tokens at different positions produce a degenerate
			// pair; it never becomes a connection
			continue
		}
		strength := pairCounts[key]
		connections[a] = append(connections[a], Connection{Keyword: b, Strength: strength})
		connections[b] = append(connections[b], Connection{Keyword: a, Strength: strength})
	}

	total := float64(len(docs))
	stats := make([]KeywordStat, 0, len(keywordOrder))
	for _, kw := range keywordOrder {
		conns := connections[kw]
		sort.SliceStable(conns, func(i, j int) bool {
			return conns[i].Strength > conns[j].Strength
		})
		stats = append(stats, KeywordStat{
			Keyword:     kw,
			Count:       counts[kw],
			Percentage:  100 * float64(counts[kw]) / total,
			Connections: conns,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})

	return stats
}

// Tokenize splits one keyword field into trimmed tokens. The first delimiter
// from the priority list found in the text wins; with no delimiter present
// the whole trimmed text is a single token. Empty tokens are dropped.
func (e *Extractor) Tokenize(text string) []string {
	for _, delim := range e.opts.Delimiters {
		if !strings.Contains(text, delim) {
			continue
		}
		parts := strings.Split(text, delim)
		tokens := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part != "" {
				tokens = append(tokens, part)
			}
		}
		return tokens
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	return []string{trimmed}
}

// pairKey builds the canonical unordered key for a keyword pair
func (e *Extractor) pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + e.opts.PairJoiner + b
}
