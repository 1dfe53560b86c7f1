package output

import (
	"strconv"

	"github.com/devraulu/bamsearch/pkg/corpus"
)

type Mode int

const (
	// KWIC keeps left context, keyword and right context in separate columns.
	KWIC Mode = iota
	// Flat concatenates the three parts of a hit into one column.
	Flat
)

func (m Mode) String() string {
	if m == Flat {
		return "flat"
	}
	return "kwic"
}

// Table is a header row plus data rows, ready to be serialized.
type Table struct {
	Header []string
	Rows   [][]string
}

func Header(mode Mode) []string {
	if mode == Flat {
		return []string{"index", "result"}
	}
	return []string{"index", "left", "keyword", "right"}
}

// Format reshapes hits into rows numbered from 0.
func Format(hits []corpus.Hit, mode Mode) Table {
	t := Table{
		Header: Header(mode),
		Rows:   make([][]string, 0, len(hits)),
	}
	for i, h := range hits {
		idx := strconv.Itoa(i)
		if mode == Flat {
			t.Rows = append(t.Rows, []string{idx, h.Left + h.Keyword + h.Right})
			continue
		}
		t.Rows = append(t.Rows, []string{idx, h.Left, h.Keyword, h.Right})
	}
	return t
}
