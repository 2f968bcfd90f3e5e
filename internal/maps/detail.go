package maps

import (
	"context"
	"fmt"
	"net/url"

	"atlasref/internal/cards"
	"atlasref/internal/config"
	"atlasref/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ParsePanels reads the layout panel and the extras panel of a detail page
// into the builder.
func ParsePanels(ctx context.Context, doc *goquery.Document, b *detailBuilder) error {
	panels, err := Panels(doc)
	if err != nil {
		return err
	}

	offset := 0
	layoutPanel, offset, err := ResolvePanel(panels, offset)
	if err != nil {
		return fmt.Errorf("layout panel: %w", err)
	}
	rows, err := PanelRows(layoutPanel)
	if err != nil {
		return fmt.Errorf("layout panel: %w", err)
	}
	b.apply(rows, layoutVocabulary)

	extrasPanel, _, err := ResolvePanel(panels, offset+1)
	if err != nil {
		return fmt.Errorf("extras panel: %w", err)
	}
	rows, err = PanelRows(extrasPanel)
	if err != nil {
		return fmt.Errorf("extras panel: %w", err)
	}
	b.apply(rows, extrasVocabulary)

	return nil
}

// Detail scrapes everything about a single map. knownCards limits the cards
// taken from the wiki's drop page.
func (s Scraper) Detail(
	ctx context.Context,
	summary Summary,
	knownCards map[string]struct{},
	ratings []Rating,
	cfg config.MapConfig,
) (Detail, error) {
	s.tel.ReportDebug("getting map data", summary.Name, summary.Poedb)

	doc, err := s.fetch.GetDocument(ctx, summary.Poedb)
	if err != nil {
		s.tel.ReportBroken(report_detail_scrape, err, summary.Name)
		return Detail{}, fmt.Errorf("map %s: fetch detail page: %w", summary.Name, err)
	}

	b := &detailBuilder{
		ctx:    ctx,
		detail: Detail{Summary: summary},
		warn: func(msg string) {
			s.tel.ReportWarning(report_detail_row, fmt.Sprintf("map %s: %s", summary.Name, msg))
		},
	}
	err = ParsePanels(ctx, doc, b)
	if err != nil {
		s.tel.ReportBroken(report_detail_scrape, err, summary.Name)
		return Detail{}, fmt.Errorf("map %s: %w", summary.Name, err)
	}

	b.detail.Rating = FindRating(ratings, summary.Name)
	if !b.detail.Rating.Found {
		s.tel.ReportDebug("no rating", summary.Name)
	}

	wikiName := WikiName(summary.Name)
	cardsUrl := config.Fill(cfg.Cards, url.QueryEscape(wikiName))
	s.tel.ReportDebug("getting card data", summary.Name, cardsUrl)
	headers, err := s.wikiCards(ctx, cardsUrl)
	if err != nil {
		s.tel.ReportBroken(report_detail_scrape, err, summary.Name)
		return Detail{}, fmt.Errorf("map %s: wiki cards: %w", summary.Name, err)
	}
	for _, header := range headers {
		if _, ok := knownCards[header]; ok {
			b.cards = append(b.cards, header)
		}
	}

	b.detail.Cards = htmlutil.SortedSet(b.cards)
	b.detail.Wiki = config.Fill(cfg.Wiki, url.PathEscape(wikiName))
	return b.detail, nil
}

// Details scrapes every map in order, the first failure aborts the whole run.
func (s Scraper) Details(
	ctx context.Context,
	summaries []Summary,
	known []cards.Card,
	ratings []Rating,
	cfg config.MapConfig,
) ([]Detail, error) {
	knownCards := cards.Names(known)
	ratedCount := 0

	out := make([]Detail, 0, len(summaries))
	for _, summary := range summaries {
		detail, err := s.Detail(ctx, summary, knownCards, ratings, cfg)
		if err != nil {
			return nil, err
		}
		if detail.Rating.Found {
			ratedCount++
		}
		out = append(out, detail)
	}

	if ratedCount < len(out) {
		s.tel.ReportWarning(report_detail_rating, fmt.Sprintf("%d of %d maps have no rating", len(out)-ratedCount, len(out)))
	}
	return out, nil
}
