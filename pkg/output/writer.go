package output

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/devraulu/bamsearch/pkg/config"
)

const (
	reservedChars = `/\?%*:|"<>`
	extension     = ".csv"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Writer persists tables as delimiter-separated UTF-8 files with a BOM.
type Writer struct {
	dir         string
	prefix      string
	placeholder string
	delimiter   rune
}

func NewWriter(cfg config.OutputConfig) *Writer {
	return &Writer{
		dir:         cfg.Dir,
		prefix:      cfg.Prefix,
		placeholder: cfg.Placeholder,
		delimiter:   cfg.DelimiterRune(),
	}
}

// SanitizeTerm replaces characters that are not allowed in file names.
func SanitizeTerm(term, placeholder string) string {
	var sb strings.Builder
	for _, r := range term {
		if strings.ContainsRune(reservedChars, r) {
			sb.WriteString(placeholder)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (w *Writer) FileName(term string) string {
	return w.prefix + SanitizeTerm(term, w.placeholder) + extension
}

func (w *Writer) Path(term string) string {
	return filepath.Join(w.dir, w.FileName(term))
}

// Write stores t in the file derived from term and returns its path.
func (w *Writer) Write(term string, t Table) (string, error) {
	if w.dir != "" {
		if err := os.MkdirAll(w.dir, 0755); err != nil {
			return "", fmt.Errorf("could not create output dir: %w", err)
		}
	}

	path := w.Path(term)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create %s: %w", path, err)
	}

	if err := Encode(f, t, w.delimiter); err != nil {
		f.Close()
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Encode writes the BOM, the header and every row of t.
func Encode(out io.Writer, t Table, delimiter rune) error {
	bw := bufio.NewWriter(out)
	if _, err := bw.Write(bom); err != nil {
		return err
	}

	cw := csv.NewWriter(bw)
	cw.Comma = delimiter
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}

	return bw.Flush()
}

// ReadFile reads a table written by Write.
func ReadFile(path string, delimiter rune) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	data = bytes.TrimPrefix(data, bom)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	return Table{Header: records[0], Rows: records[1:]}, nil
}

// Print renders t as aligned columns for a terminal. Tabs inside fields are
// replaced by spaces since tabwriter treats them as column breaks.
func Print(out io.Writer, t Table) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if err := printRow(tw, t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := printRow(tw, row); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printRow(w io.Writer, row []string) error {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = strings.ReplaceAll(cell, "\t", " ")
	}
	_, err := fmt.Fprintln(w, strings.Join(cells, "\t"))
	return err
}
