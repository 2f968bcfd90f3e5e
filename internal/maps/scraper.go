package maps

import (
	"errors"

	"atlasref/internal/components/assert"
	"atlasref/internal/components/telemetry"
	"atlasref/internal/fetch"
	"atlasref/internal/sheets"
)

const (
	report_list_fetch    = "list.fetch"
	report_list_row      = "list.row"
	report_list_maps     = "list.maps"
	report_ratings_fetch = "ratings.fetch"
	report_detail_scrape = "detail.scrape"
	report_detail_rating = "detail.rating"
	report_detail_row    = "detail.row"
)

var (
	ErrNoMapList       = errors.New("map list table not found")
	ErrNoContainer     = errors.New("detail panel container not found")
	ErrNoPanel         = errors.New("detail panel not found")
	ErrNoTable         = errors.New("detail panel table not found")
	ErrMalformedRating = errors.New("malformed rating sheet")
	ErrMalformedWiki   = errors.New("malformed wiki response")
)

// Scraper fetches the map list, the ratings and every map's details.
type Scraper struct {
	fetch  fetch.Client
	sheets sheets.Client
	tel    telemetry.API
}

func NewScraper(f fetch.Client, s sheets.Client, tel telemetry.API) Scraper {
	assert.NotNil(f)
	assert.NotNil(tel)
	return Scraper{
		fetch:  f,
		sheets: s,
		tel:    telemetry.NewScopedAPI("maps", tel),
	}
}
