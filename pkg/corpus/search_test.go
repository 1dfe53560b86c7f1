package corpus

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_LengthIsMinOfCountAndTotal(t *testing.T) {
	for _, total := range []int{1, 5, 20, 21, 40, 45, 100} {
		for _, count := range []int{1, 10, 20, 21, 45, 60} {
			t.Run(fmt.Sprintf("total=%d/count=%d", total, count), func(t *testing.T) {
				fc := &fakeCorpus{total: total, pageSize: 20}
				rs, err := NewSearcher(fc, 20).Search(context.Background(), Query{Term: "jamana", Count: count})
				require.NoError(t, err)

				want := min(total, count)
				require.Len(t, rs.Hits, want)
				assert.Equal(t, total, rs.Total)
				for i, h := range rs.Hits {
					assert.Equal(t, fmt.Sprintf("w%d", i), h.Keyword)
				}
			})
		}
	}
}

func TestSearch_RequestsOnlyNeededPages(t *testing.T) {
	tests := []struct {
		total, count int
		pages        []int
	}{
		{total: 100, count: 10, pages: []int{1}},
		{total: 100, count: 20, pages: []int{1}},
		{total: 100, count: 21, pages: []int{1, 2}},
		{total: 100, count: 45, pages: []int{1, 2, 3}},
		{total: 30, count: 100, pages: []int{1, 2}},
	}
	for _, tt := range tests {
		fc := &fakeCorpus{total: tt.total, pageSize: 20}
		_, err := NewSearcher(fc, 20).Search(context.Background(), Query{Term: "a", Count: tt.count})
		require.NoError(t, err)
		assert.Equal(t, tt.pages, fc.pages(), "total=%d count=%d", tt.total, tt.count)
	}
}

func TestSearch_PageSizeIsConfigurable(t *testing.T) {
	fc := &fakeCorpus{total: 100, pageSize: 10}
	rs, err := NewSearcher(fc, 10).Search(context.Background(), Query{Term: "a", Count: 25})
	require.NoError(t, err)

	assert.Len(t, rs.Hits, 25)
	assert.Equal(t, []int{1, 2, 3}, fc.pages())
}

func TestSearch_Deterministic(t *testing.T) {
	q := Query{Term: "jamana", Corpus: CorpusNonTonal, Count: 33}
	a, err := NewSearcher(&fakeCorpus{total: 50, pageSize: 20}, 20).Search(context.Background(), q)
	require.NoError(t, err)
	b, err := NewSearcher(&fakeCorpus{total: 50, pageSize: 20}, 20).Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, a.Hits, b.Hits)
}

func TestSearch_Defaults(t *testing.T) {
	fc := &fakeCorpus{total: 50, pageSize: 20}
	rs, err := NewSearcher(fc, 20).Search(context.Background(), Query{Term: " jamana "})
	require.NoError(t, err)

	assert.Len(t, rs.Hits, DefaultCount)
	assert.Equal(t, CorpusNonTonal, rs.Query.Corpus)
	assert.Equal(t, "jamana", rs.Query.Term)
}

func TestSearch_InvalidQuery(t *testing.T) {
	s := NewSearcher(&fakeCorpus{total: 1, pageSize: 20}, 20)

	_, err := s.Search(context.Background(), Query{Term: "  "})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = s.Search(context.Background(), Query{Term: "a", Count: -1})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = NewSearcher(&fakeCorpus{}, 0).Search(context.Background(), Query{Term: "a"})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestSearch_NoResults(t *testing.T) {
	fc := &fakeCorpus{total: 0, pageSize: 20}
	rs, err := NewSearcher(fc, 20).Search(context.Background(), Query{Term: "zzz"})

	assert.ErrorIs(t, err, ErrNoResults)
	require.NotNil(t, rs)
	assert.Empty(t, rs.Hits)
	assert.Equal(t, []int{1}, fc.pages())
}

func TestSearch_ZeroTotalDropsStrayRows(t *testing.T) {
	rs, err := NewSearcher(staticFetcher(renderPage(0, 0, 3)), 20).
		Search(context.Background(), Query{Term: "a", Count: 10})

	assert.ErrorIs(t, err, ErrNoResults)
	require.NotNil(t, rs)
	assert.Zero(t, rs.Total)
	assert.Empty(t, rs.Hits)
}

func TestSearch_FirstPageTransportFailure(t *testing.T) {
	boom := &TransportError{Page: 1, Err: errors.New("connection refused")}
	fc := &fakeCorpus{total: 50, pageSize: 20, failOn: map[int]error{1: boom}}

	rs, err := NewSearcher(fc, 20).Search(context.Background(), Query{Term: "a"})
	assert.Nil(t, rs)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Page)
	assert.NotErrorIs(t, err, ErrParse)
}

type staticFetcher string

func (s staticFetcher) Fetch(context.Context, string, string, int) (string, error) {
	return string(s), nil
}

func TestSearch_FirstPageParseFailure(t *testing.T) {
	rs, err := NewSearcher(staticFetcher("<html><p>Empty result</p></html>"), 20).
		Search(context.Background(), Query{Term: "a"})

	assert.Nil(t, rs)
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestSearch_LaterPageFailureKeepsCollectedHits(t *testing.T) {
	boom := errors.New("reset by peer")
	fc := &fakeCorpus{total: 100, pageSize: 20, failOn: map[int]error{3: boom}}

	rs, err := NewSearcher(fc, 20).Search(context.Background(), Query{Term: "a", Count: 50})

	var pe *PartialError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Page)
	assert.Equal(t, 40, pe.Collected)
	assert.ErrorIs(t, err, boom)

	require.NotNil(t, rs)
	assert.Len(t, rs.Hits, 40)
	assert.Equal(t, "w39", rs.Hits[39].Keyword)
}

func TestSearch_StopsOnEmptyPage(t *testing.T) {
	// corpus claims more hits than it serves
	fc := &fakeCorpus{total: 25, pageSize: 20}
	s := NewSearcher(&overclaim{fakeCorpus: fc, claimed: 80}, 20)

	rs, err := s.Search(context.Background(), Query{Term: "a", Count: 80})
	require.NoError(t, err)
	assert.Len(t, rs.Hits, 25)
	assert.Equal(t, []int{1, 2, 3}, fc.pages())
}

type overclaim struct {
	*fakeCorpus
	claimed int
}

func (o *overclaim) Fetch(ctx context.Context, term, corpus string, page int) (string, error) {
	body, err := o.fakeCorpus.Fetch(ctx, term, corpus, page)
	if page == 1 {
		from := 0
		n := min(o.pageSize, o.total)
		body = renderPage(o.claimed, from, n)
	}
	return body, err
}

func TestRemainingPages(t *testing.T) {
	assert.Equal(t, 0, RemainingPages(0, 20))
	assert.Equal(t, 0, RemainingPages(1, 20))
	assert.Equal(t, 0, RemainingPages(20, 20))
	assert.Equal(t, 1, RemainingPages(21, 20))
	assert.Equal(t, 2, RemainingPages(45, 20))
	assert.Equal(t, 2, RemainingPages(60, 20))
	assert.Equal(t, 0, RemainingPages(10, 0))
}
