package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/devraulu/bamsearch/pkg/corpus"
)

// Run is one archived search together with its hits.
type Run struct {
	ID        uuid.UUID
	Term      string
	Corpus    string
	Tags      bool
	Requested int
	Total     int
	CreatedAt time.Time
	Hits      []corpus.Hit
}

type RunSummary struct {
	ID        uuid.UUID
	Term      string
	Corpus    string
	Hits      int
	Total     int
	CreatedAt time.Time
}

type Storage interface {
	SaveRun(ctx context.Context, r Run) error
	RecentRuns(ctx context.Context, limit int) ([]RunSummary, error)
	Close() error
}

// NewRun captures rs for archiving under a fresh id.
func NewRun(rs *corpus.ResultSet) Run {
	return Run{
		ID:        uuid.New(),
		Term:      rs.Query.Term,
		Corpus:    rs.Query.Corpus,
		Tags:      rs.Query.Tags,
		Requested: rs.Query.Count,
		Total:     rs.Total,
		CreatedAt: time.Now().UTC(),
		Hits:      rs.Hits,
	}
}
