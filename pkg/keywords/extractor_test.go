package keywords

import (
	"reflect"
	"testing"

	"github.com/dd0wney/keygraph/pkg/corpus"
)

// makeDocs builds a corpus where each string is one document's keyword field
func makeDocs(fields ...string) []corpus.Document {
	docs := make([]corpus.Document, len(fields))
	for i, f := range fields {
		docs[i] = corpus.Document{ID: string(rune('a' + i)), Keywords: f}
	}
	return docs
}

// findStat locates a keyword's stat or fails the test
func findStat(t *testing.T, stats []KeywordStat, keyword string) KeywordStat {
	t.Helper()
	for _, s := range stats {
		if s.Keyword == keyword {
			return s
		}
	}
	t.Fatalf("Keyword %q not found in stats", keyword)
	return KeywordStat{}
}

// strength returns the connection strength between two keywords, 0 if absent
func strength(stats []KeywordStat, from, to string) int {
	for _, s := range stats {
		if s.Keyword != from {
			continue
		}
		for _, c := range s.Connections {
			if c.Keyword == to {
				return c.Strength
			}
		}
	}
	return 0
}

func TestExtractBasicScenario(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})
	stats := e.Extract(makeDocs("A; B; C", "A; B"))

	if len(stats) != 3 {
		t.Fatalf("Expected 3 keywords, got %d", len(stats))
	}

	if s := findStat(t, stats, "A"); s.Count != 2 {
		t.Errorf("A count = %d, want 2", s.Count)
	}
	if s := findStat(t, stats, "B"); s.Count != 2 {
		t.Errorf("B count = %d, want 2", s.Count)
	}
	if s := findStat(t, stats, "C"); s.Count != 1 {
		t.Errorf("C count = %d, want 1", s.Count)
	}

	if got := strength(stats, "A", "B"); got != 2 {
		t.Errorf("A-B strength = %d, want 2", got)
	}
	if got := strength(stats, "A", "C"); got != 1 {
		t.Errorf("A-C strength = %d, want 1", got)
	}
	if got := strength(stats, "B", "C"); got != 1 {
		t.Errorf("B-C strength = %d, want 1", got)
	}

	// C (count 1) must rank after A and B (count 2)
	if stats[2].Keyword != "C" {
		t.Errorf("Expected C last, got %q", stats[2].Keyword)
	}
}

func TestExtractDelimiterPriority(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})

	// Semicolon outranks comma: commas stay inside tokens
	stats := e.Extract(makeDocs("machine learning, deep; graphs"))
	if len(stats) != 2 {
		t.Fatalf("Expected 2 keywords, got %d", len(stats))
	}
	findStat(t, stats, "machine learning, deep")
	findStat(t, stats, "graphs")

	// Comma used when no semicolon present
	stats = e.Extract(makeDocs("alpha, beta, gamma"))
	if len(stats) != 3 {
		t.Fatalf("Expected 3 keywords, got %d", len(stats))
	}

	// Full-width comma
	stats = e.Extract(makeDocs("知识图谱，深度学习"))
	if len(stats) != 2 {
		t.Fatalf("Full-width comma split failed, got %d keywords", len(stats))
	}

	// Ideographic comma
	stats = e.Extract(makeDocs("甲、乙、丙"))
	if len(stats) != 3 {
		t.Fatalf("Ideographic comma split failed, got %d keywords", len(stats))
	}
}

func TestExtractNoDelimiter(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})

	stats := e.Extract(makeDocs("  single keyword phrase  "))
	if len(stats) != 1 {
		t.Fatalf("Expected 1 keyword, got %d", len(stats))
	}
	if stats[0].Keyword != "single keyword phrase" {
		t.Errorf("Keyword not trimmed: %q", stats[0].Keyword)
	}
}

func TestExtractEmptyInputs(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})

	if stats := e.Extract(nil); len(stats) != 0 {
		t.Errorf("Nil docs should yield no stats, got %d", len(stats))
	}
	if stats := e.Extract([]corpus.Document{}); len(stats) != 0 {
		t.Errorf("Empty docs should yield no stats, got %d", len(stats))
	}
	// Whitespace-only and empty keyword fields contribute nothing
	if stats := e.Extract(makeDocs("", "   ", "; ; ;")); len(stats) != 0 {
		t.Errorf("Blank keyword fields should yield no stats, got %d", len(stats))
	}
}

func TestExtractEmptyTokensDropped(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})

	stats := e.Extract(makeDocs("a;; b ;  ; c"))
	if len(stats) != 3 {
		t.Fatalf("Expected 3 keywords after dropping empties, got %d", len(stats))
	}
	for _, s := range stats {
		if s.Keyword == "" {
			t.Error("Empty keyword leaked into stats")
		}
	}
}

func TestExtractDuplicateTokensInOneDocument(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})

	stats := e.Extract(makeDocs("go; go; rust"))

	if s := findStat(t, stats, "go"); s.Count != 2 {
		t.Errorf("Repeated token should count per occurrence, got %d", s.Count)
	}
	// Index pairs (0,2) and (1,2) both bind go-rust
	if got := strength(stats, "go", "rust"); got != 2 {
		t.Errorf("go-rust strength = %d, want 2", got)
	}
	// The (0,1) go-go pair must not surface as a connection
	if got := strength(stats, "go", "go"); got != 0 {
		t.Errorf("Self connection present with strength %d", got)
	}
}

func TestExtractNoSelfConnections(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})
	stats := e.Extract(makeDocs("x; y; x; z", "x; x"))

	for _, s := range stats {
		for _, c := range s.Connections {
			if c.Keyword == s.Keyword {
				t.Errorf("Keyword %q connects to itself", s.Keyword)
			}
		}
	}
}

func TestExtractConnectionSymmetry(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})
	stats := e.Extract(makeDocs("a; b; c", "b; c", "c; a", "a; b"))

	keywords := []string{"a", "b", "c"}
	for _, x := range keywords {
		for _, y := range keywords {
			if x == y {
				continue
			}
			if strength(stats, x, y) != strength(stats, y, x) {
				t.Errorf("Asymmetric strength %s-%s: %d vs %d",
					x, y, strength(stats, x, y), strength(stats, y, x))
			}
		}
	}
}

func TestExtractPercentage(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})

	// 4 documents, one of them keywordless; "a" occurs in 2
	docs := makeDocs("a", "a; b", "b", "")
	stats := e.Extract(docs)

	if s := findStat(t, stats, "a"); s.Percentage != 50 {
		t.Errorf("a percentage = %f, want 50", s.Percentage)
	}
	if s := findStat(t, stats, "b"); s.Percentage != 50 {
		t.Errorf("b percentage = %f, want 50", s.Percentage)
	}
}

func TestExtractSortStability(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})

	// All counts equal: first-encountered order must survive the sort
	stats := e.Extract(makeDocs("zebra; apple; mango"))
	got := []string{stats[0].Keyword, stats[1].Keyword, stats[2].Keyword}
	want := []string{"zebra", "apple", "mango"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tie order = %v, want %v", got, want)
	}
}

func TestExtractConnectionOrdering(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})

	// hub pairs: with b three times, with c once, with d twice
	stats := e.Extract(makeDocs(
		"hub; b", "hub; b", "hub; b",
		"hub; c",
		"hub; d", "hub; d",
	))

	s := findStat(t, stats, "hub")
	if len(s.Connections) != 3 {
		t.Fatalf("hub should have 3 connections, got %d", len(s.Connections))
	}
	wantOrder := []Connection{
		{Keyword: "b", Strength: 3},
		{Keyword: "d", Strength: 2},
		{Keyword: "c", Strength: 1},
	}
	if !reflect.DeepEqual(s.Connections, wantOrder) {
		t.Errorf("Connection order = %v, want %v", s.Connections, wantOrder)
	}
}

func TestExtractDeterminism(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})
	docs := makeDocs(
		"graph; layout; force",
		"graph; community",
		"layout; force; graph",
		"community; force",
	)

	first := e.Extract(docs)
	for i := 0; i < 10; i++ {
		if again := e.Extract(docs); !reflect.DeepEqual(first, again) {
			t.Fatalf("Extraction differs between runs:\n%v\n%v", first, again)
		}
	}
}

func TestTokenizeDirect(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})

	cases := []struct {
		input string
		want  []string
	}{
		{"a; b; c", []string{"a", "b", "c"}},
		{"a,b", []string{"a", "b"}},
		{" spaced ; out ", []string{"spaced", "out"}},
		{"solo", []string{"solo"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tc := range cases {
		if got := e.Tokenize(tc.input); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
