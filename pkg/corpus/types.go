package corpus

import (
	"fmt"
	"strings"
	"time"
)

// Known corpus identifiers served by the Bonito endpoint.
const (
	CorpusNonTonal = "corbama-net-non-tonal"
	CorpusTonal    = "corbama-net-tonal"
	CorpusBrut     = "corbama-brut"
)

// DefaultCount is the number of hits requested when a query does not say.
const DefaultCount = 10

var knownCorpora = map[string]bool{
	CorpusNonTonal: true,
	CorpusTonal:    true,
	CorpusBrut:     true,
}

// Known reports whether id is one of the corpus identifiers listed above.
func Known(id string) bool {
	return knownCorpora[id]
}

// Query describes a single search. It is not modified once a search starts.
type Query struct {
	Term   string
	Corpus string
	Tags   bool
	Count  int
}

// withDefaults fills in the corpus and count and validates the rest.
func (q Query) withDefaults() (Query, error) {
	q.Term = strings.TrimSpace(q.Term)
	if q.Term == "" {
		return q, fmt.Errorf("%w: empty search term", ErrInvalidQuery)
	}
	if q.Corpus == "" {
		q.Corpus = CorpusNonTonal
	}
	if q.Count == 0 {
		q.Count = DefaultCount
	}
	if q.Count < 0 {
		return q, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidQuery, q.Count)
	}
	return q, nil
}

// Hit is one concordance line.
type Hit struct {
	Left    string
	Keyword string
	Right   string
}

// ResultSet holds hits in the order the corpus reported them.
// len(Hits) never exceeds min(Query.Count, Total).
type ResultSet struct {
	Query Query
	Total int
	Hits  []Hit
}

func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Hits)
}

type SearchStats struct {
	StartTime     time.Time
	PagesFetched  int
	HitsCollected int
}

func (s *SearchStats) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}
