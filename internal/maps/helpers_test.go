package maps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	contents, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(contents)
}

func parseFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	return parseHtml(t, readFixture(t, name))
}

func parseHtml(t *testing.T, contents string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	require.NoError(t, err)
	return doc
}
