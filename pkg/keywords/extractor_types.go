package keywords

// Connection records how often another keyword appears together with this one
type Connection struct {
	Keyword  string `json:"keyword"`
	Strength int    `json:"strength"`
}

// KeywordStat aggregates one keyword across the corpus
type KeywordStat struct {
	Keyword string `json:"keyword"`
	// Count is the number of occurrences, not documents: a keyword repeated
	// inside one document counts once per repeat
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	// Connections is sorted by strength descending, earlier-seen pairs first
	// on ties
	Connections []Connection `json:"connections"`
}

// ExtractorOptions configures keyword extraction
type ExtractorOptions struct {
	// Delimiters is scanned in order; the first one present in a document's
	// keyword text is the only one used to split that document
	Delimiters []string
	// PairJoiner separates the two sides of a co-occurrence key
	PairJoiner string
}

// DefaultExtractorOptions returns the delimiter priority used by the corpus
// files this tool was built for: semicolon first, then ASCII comma, then the
// full-width comma and ideographic comma found in CJK exports.
func DefaultExtractorOptions() ExtractorOptions {
	return ExtractorOptions{
		Delimiters: []string{";", ",", "，", "、"},
		PairJoiner: "|",
	}
}
