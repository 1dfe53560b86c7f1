package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Searcher pages through a corpus until the requested number of hits, or
// every hit the corpus has, is collected. Pages are fetched one at a time.
type Searcher struct {
	fetcher  Fetcher
	pageSize int
}

func NewSearcher(f Fetcher, pageSize int) *Searcher {
	return &Searcher{
		fetcher:  f,
		pageSize: pageSize,
	}
}

// Search runs q and returns the collected hits.
//
// A first page that reports zero hits yields an empty ResultSet and
// ErrNoResults. A failure on the first page returns a nil ResultSet and the
// error. A failure on a later page returns the hits gathered so far and a
// *PartialError.
func (s *Searcher) Search(ctx context.Context, q Query) (*ResultSet, error) {
	q, err := q.withDefaults()
	if err != nil {
		return nil, err
	}
	if s.pageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidQuery, s.pageSize)
	}
	if !Known(q.Corpus) {
		slog.Warn("unknown corpus identifier", slog.String("corpus", q.Corpus))
	}

	stats := SearchStats{StartTime: time.Now()}

	first, err := s.page(ctx, q, 1, true, &stats)
	if err != nil {
		return nil, err
	}

	rs := &ResultSet{
		Query: q,
		Total: first.Total,
		Hits:  NormalizeRows(first.Rows, q.Tags, q.Corpus),
	}

	if first.Total == 0 {
		rs.Hits = truncate(rs.Hits, 0)
		s.logComplete(q, &stats, rs)
		return rs, ErrNoResults
	}

	target := min(first.Total, q.Count)
	last := 1 + RemainingPages(target, s.pageSize)

	for p := 2; p <= last && len(rs.Hits) < target; p++ {
		page, err := s.page(ctx, q, p, false, &stats)
		if err != nil {
			rs.Hits = truncate(rs.Hits, target)
			slog.Warn("search stopped early",
				slog.String("query", q.Term),
				slog.Int("page", p),
				slog.Int("collected", len(rs.Hits)),
				slog.Any("err", err),
			)
			return rs, &PartialError{Page: p, Collected: len(rs.Hits), Err: err}
		}
		if len(page.Rows) == 0 {
			slog.Debug("empty page, stopping", slog.Int("page", p))
			break
		}
		rs.Hits = append(rs.Hits, NormalizeRows(page.Rows, q.Tags, q.Corpus)...)
	}

	rs.Hits = truncate(rs.Hits, target)
	s.logComplete(q, &stats, rs)

	return rs, nil
}

func (s *Searcher) page(ctx context.Context, q Query, n int, first bool, stats *SearchStats) (Page, error) {
	body, err := s.fetcher.Fetch(ctx, q.Term, q.Corpus, n)
	if err != nil {
		return Page{}, err
	}
	stats.PagesFetched++

	page, err := ParsePage(body, first)
	if err != nil {
		return Page{}, fmt.Errorf("parse page %d: %w", n, err)
	}
	stats.HitsCollected += len(page.Rows)

	return page, nil
}

func (s *Searcher) logComplete(q Query, stats *SearchStats, rs *ResultSet) {
	slog.Info("search complete",
		slog.String("query", q.Term),
		slog.String("corpus", q.Corpus),
		slog.Int("total", rs.Total),
		slog.Int("results", len(rs.Hits)),
		slog.Int("pages", stats.PagesFetched),
		slog.Int("rows_seen", stats.HitsCollected),
		slog.Duration("elapsed", stats.Elapsed()),
	)
}

// RemainingPages is the number of pages after the first needed to cover
// target hits when each page holds pageSize hits.
func RemainingPages(target, pageSize int) int {
	if target <= 0 || pageSize <= 0 {
		return 0
	}
	return (target - 1) / pageSize
}

func truncate(hits []Hit, n int) []Hit {
	if len(hits) > n {
		return hits[:n]
	}
	return hits
}
