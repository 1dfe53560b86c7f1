package corpus

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NormalizeRows converts table rows into hits, one hit per row, in order.
// Grammatical tags are appended to keywords only for the tonal corpus.
func NormalizeRows(rows []RawRow, tags bool, corpus string) []Hit {
	withTags := tags && corpus == CorpusTonal

	hits := make([]Hit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, normalizeRow(row.sel, withTags))
	}
	return hits
}

func normalizeRow(row *goquery.Selection, withTags bool) Hit {
	var keywords []string
	row.Find("td.kw div.token").Each(func(_ int, token *goquery.Selection) {
		keywords = append(keywords, keywordText(token, withTags))
	})

	return Hit{
		Left:    joinFragments(row.Find("td.lc span.nott")),
		Keyword: strings.Join(keywords, " "),
		Right:   joinFragments(row.Find("td.rc span.nott")),
	}
}

func keywordText(token *goquery.Selection, withTags bool) string {
	var text string
	if display := token.Find("span.nott").First(); display.Length() > 0 {
		text = strings.TrimSpace(display.Text())
	} else {
		text = strings.TrimSpace(token.Clone().Find("div.aline").Remove().End().Text())
	}

	if !withTags {
		return text
	}

	var annotations []string
	token.Find("div.aline").Each(func(_ int, a *goquery.Selection) {
		if t := strings.TrimSpace(a.Text()); t != "" {
			annotations = append(annotations, t)
		}
	})
	if len(annotations) == 0 {
		return text
	}

	return text + " (" + strings.Join(annotations, "; ") + ")"
}

func joinFragments(s *goquery.Selection) string {
	fragments := make([]string, 0, s.Length())
	s.Each(func(_ int, f *goquery.Selection) {
		fragments = append(fragments, strings.TrimSpace(f.Text()))
	})
	return strings.Join(fragments, " ")
}
