package corpus

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// renderPage builds a result page in the corpus's markup holding hits
// [from, from+n). Hit i has keyword "w<i>".
func renderPage(total, from, n int) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	fmt.Fprintf(&sb, `<p>Hits: <strong data-num="%d">%d</strong></p>`, total, total)
	sb.WriteString(`<table class="concordance">`)
	for i := from; i < from+n; i++ {
		fmt.Fprintf(&sb, `<tr><td class="lc"><span class="nott">l%d</span></td>`, i)
		fmt.Fprintf(&sb, `<td class="kw"><div class="token"><span class="nott">w%d</span><div class="aline">tag%d</div></div></td>`, i, i)
		fmt.Fprintf(&sb, `<td class="rc"><span class="nott">r%d</span></td></tr>`, i)
	}
	sb.WriteString("</table></body></html>")
	return sb.String()
}

// fakeCorpus serves pages of a corpus holding total hits.
type fakeCorpus struct {
	total    int
	pageSize int
	failOn   map[int]error

	mu        sync.Mutex
	requested []int
}

func (f *fakeCorpus) Fetch(_ context.Context, term, corpus string, page int) (string, error) {
	f.mu.Lock()
	f.requested = append(f.requested, page)
	f.mu.Unlock()

	if err, ok := f.failOn[page]; ok {
		return "", err
	}

	from := (page - 1) * f.pageSize
	n := max(0, min(f.pageSize, f.total-from))
	return renderPage(f.total, from, n), nil
}

func (f *fakeCorpus) pages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.requested...)
}
