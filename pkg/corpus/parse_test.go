package corpus

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage_FirstPage(t *testing.T) {
	page, err := ParsePage(renderPage(45, 0, 20), true)
	require.NoError(t, err)

	assert.Equal(t, 45, page.Total)
	assert.Len(t, page.Rows, 20)
}

func TestParsePage_LaterPageSkipsCount(t *testing.T) {
	body := `<table><tr><td class="kw"><div class="token"><span class="nott">a</span></div></td></tr></table>`
	page, err := ParsePage(body, false)
	require.NoError(t, err)

	assert.Zero(t, page.Total)
	assert.Len(t, page.Rows, 1)
}

func TestParsePage_MissingTable(t *testing.T) {
	_, err := ParsePage(`<html><body><p>nothing</p></body></html>`, true)
	assert.ErrorIs(t, err, ErrNoTable)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParsePage_MissingCount(t *testing.T) {
	_, err := ParsePage(`<table><tr><td>x</td></tr></table>`, true)
	assert.ErrorIs(t, err, ErrNoCount)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParsePage_UnparsableCount(t *testing.T) {
	_, err := ParsePage(`<strong data-num="x">many</strong><table></table>`, true)
	assert.ErrorIs(t, err, ErrNoCount)
}

func TestParsePage_Fixture(t *testing.T) {
	data, err := os.ReadFile("testdata/tonal_page.html")
	require.NoError(t, err)

	page, err := ParsePage(string(data), true)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Rows, 2)
}

func TestParseCount(t *testing.T) {
	tests := map[string]int{
		"45":         45,
		" 1 234 ":    1234,
		"12,345":     12345,
		"1\u00a0000": 1000,
	}
	for in, want := range tests {
		got, err := parseCount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseCount("")
	assert.Error(t, err)
}
