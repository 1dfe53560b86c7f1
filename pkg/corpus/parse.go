package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RawRow is one <tr> of the concordance table. It is only valid while the
// page it came from is being normalized.
type RawRow struct {
	sel *goquery.Selection
}

// Page is the parsed form of one result page. Total is only set when the
// page was parsed as the first page of a search.
type Page struct {
	Rows  []RawRow
	Total int
}

// ParsePage extracts the concordance rows from body and, when first is set,
// the total hit count reported by the corpus.
func ParsePage(body string, first bool) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return Page{}, ErrNoTable
	}

	var page Page
	table.Find("tr").Each(func(_ int, s *goquery.Selection) {
		page.Rows = append(page.Rows, RawRow{sel: s})
	})

	if !first {
		return page, nil
	}

	strong := doc.Find("strong[data-num]").First()
	if strong.Length() == 0 {
		return Page{}, ErrNoCount
	}

	total, err := parseCount(strong.Text())
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrNoCount, err)
	}
	page.Total = total

	return page, nil
}

// parseCount accepts counts rendered with digit grouping, e.g. "1 234" or "1,234".
func parseCount(s string) (int, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ',', '.', '\u00a0', '\u202f', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	return strconv.Atoi(cleaned)
}
