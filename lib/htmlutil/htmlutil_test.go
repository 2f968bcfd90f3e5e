package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<table><tbody><tr><td>
			<a href="/us/Strand_Map"> Strand Map </a>,
			<a href="%zz">Broken</a>
			<span><a>Nested</a></span>
		</td></tr></tbody></table>`,
	))
	require.NoError(t, err)

	cell := doc.Find("td")
	require.Equal(t, 1, cell.Length())

	anchors := GetAnchors(context.Background(), cell)
	require.Equal(t, []Anchor{
		{Name: "Strand Map", Href: "/us/Strand_Map"},
		{Name: "Broken", Href: "%zz"},
		{Name: "Nested", Href: ""},
	}, anchors)
}

func TestSortedSet(t *testing.T) {
	table := []struct {
		input    []string
		expected []string
	}{
		{input: nil, expected: []string{}},
		{input: []string{"b", "a", "b"}, expected: []string{"a", "b"}},
		{input: []string{"Zana", "Einhar", "Alva", "Einhar"}, expected: []string{"Alva", "Einhar", "Zana"}},
	}

	for _, row := range table {
		require.Equal(t, row.expected, SortedSet(row.input))
	}
}

func TestCleanText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<table><tr><td>\n\t Few Obstacles </td></tr></table>",
	))
	require.NoError(t, err)
	require.Equal(t, "Few Obstacles", CleanText(doc.Find("td")))
}
