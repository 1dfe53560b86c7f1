package batch

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	ErrNoQueries = errors.New("no queries loaded")
)

// LoadQueries reads search terms from path, one per line. Blank lines and
// lines starting with '#' are skipped; duplicates keep their first position.
func LoadQueries(path string) ([]string, error) {
	slog.Info("loading queries", "path", path)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	terms, err := ReadQueries(file)
	if err != nil {
		return nil, err
	}

	slog.Info("loaded queries", "count", len(terms))
	return terms, nil
}

func ReadQueries(r io.Reader) ([]string, error) {
	seen := make(map[string]bool)
	var terms []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term == "" || strings.HasPrefix(term, "#") {
			continue
		}
		if seen[term] {
			slog.Debug("duplicate query, skipping", slog.String("query", term))
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(terms) == 0 {
		return nil, ErrNoQueries
	}

	return terms, nil
}
