package maps

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"atlasref/internal/components/telemetry"
	"atlasref/internal/config"
	"atlasref/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// columns of a map list row
const (
	colListName  = 3
	colListTiers = 4
)

const localeSegment = "/us/"

// ParseList reads the map list table of the index page. Rows with an empty
// name are skipped, as is every row that cannot produce a complete Summary.
func ParseList(doc *goquery.Document, detailTemplate string, tel telemetry.API) ([]Summary, error) {
	table := doc.Find("#MapsList").First().Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoMapList
	}

	var out []Summary
	table.Find("tbody").First().Find("tr").Each(func(i int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() <= colListTiers {
			tel.ReportDebug("skipping short list row", i, cols.Length())
			return
		}

		nameCell := cols.Eq(colListName)
		name := htmlutil.CleanText(nameCell)
		if name == "" {
			return
		}

		href, ok := nameCell.Find("a").First().Attr("href")
		if !ok {
			tel.ReportWarning(report_list_row, fmt.Sprintf("map %s has no link", name))
			return
		}
		href = strings.ReplaceAll(href, localeSegment, "")

		tier, err := parseFirstTier(htmlutil.CleanText(cols.Eq(colListTiers)))
		if err != nil {
			tel.ReportWarning(report_list_row, fmt.Sprintf("map %s: %s", name, err.Error()))
			return
		}

		out = append(out, Summary{
			Name:  name,
			Tier:  tier,
			Poedb: config.Fill(detailTemplate, href),
		})
	})

	slices.SortStableFunc(out, func(a, b Summary) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// parseFirstTier parses the first value of a comma separated tier list.
func parseFirstTier(tiers string) (int, error) {
	first, _, _ := strings.Cut(tiers, ",")
	tier, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, fmt.Errorf("parse tier %q: %w", tiers, err)
	}
	return tier, nil
}

func (s Scraper) List(ctx context.Context, cfg config.MapConfig) ([]Summary, error) {
	s.tel.ReportDebug("getting maps", cfg.List)
	doc, err := s.fetch.GetDocument(ctx, cfg.List)
	if err != nil {
		s.tel.ReportBroken(report_list_fetch, err)
		return nil, fmt.Errorf("fetch map list: %w", err)
	}

	out, err := ParseList(doc, cfg.Poedb, s.tel)
	if err != nil {
		s.tel.ReportBroken(report_list_fetch, err)
		return nil, fmt.Errorf("parse map list %s: %w", cfg.List, err)
	}
	s.tel.ReportCount(report_list_maps, int64(len(out)))
	return out, nil
}
