package maps

import (
	"context"
	"fmt"
	"strings"

	"atlasref/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// wikiResponse is the body of the wiki's parse API.
type wikiResponse struct {
	Parse *struct {
		Text *struct {
			Html string `json:"*"`
		} `json:"text"`
	} `json:"parse"`
}

// WikiName is the page name of a map on the wiki, it still has to be escaped
// for the part of the url it goes into.
func WikiName(mapName string) string {
	return strings.ReplaceAll(mapName, " ", "_")
}

// ParseWikiCards returns the text of every card header of a rendered wiki
// page, in document order.
func ParseWikiCards(fragment string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse wiki html: %w", err)
	}

	var out []string
	doc.Find("span.divicard-header").Each(func(_ int, header *goquery.Selection) {
		out = append(out, htmlutil.CleanText(header))
	})
	return out, nil
}

func (s Scraper) wikiCards(ctx context.Context, link string) ([]string, error) {
	var body wikiResponse
	err := s.fetch.GetJSON(ctx, link, &body)
	if err != nil {
		return nil, err
	}
	if body.Parse == nil || body.Parse.Text == nil {
		return nil, fmt.Errorf("%w: %s has no parse.text", ErrMalformedWiki, link)
	}
	return ParseWikiCards(body.Parse.Text.Html)
}
