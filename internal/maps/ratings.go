package maps

import (
	"context"
	"fmt"
	"strings"

	"atlasref/internal/config"
	"atlasref/internal/sheets"
)

// columns of a rating row
const (
	colRatingName    = 0
	colRatingLayout  = 2
	colRatingDensity = 3
	colRatingBoss    = 5
)

const mapSuffix = " Map"

// ParseRatings drops the header row and maps the fixed columns of every other
// row. Cells missing from the end of a row read as empty.
func ParseRatings(values [][]string) ([]Rating, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMalformedRating)
	}

	out := make([]Rating, 0, len(values)-1)
	for _, row := range values[1:] {
		if len(row) == 0 {
			continue
		}
		out = append(out, Rating{
			Name:    sheets.Cell(row, colRatingName),
			Layout:  sheets.Cell(row, colRatingLayout),
			Density: sheets.Cell(row, colRatingDensity),
			Boss:    sheets.Cell(row, colRatingBoss),
		})
	}
	return out, nil
}

// FindRating returns the rating named like the map without its " Map" suffix.
func FindRating(ratings []Rating, mapName string) RatingValues {
	name := strings.TrimSuffix(mapName, mapSuffix)
	for _, r := range ratings {
		if r.Name == name {
			return RatingValues{
				Found:   true,
				Layout:  r.Layout,
				Density: r.Density,
				Boss:    r.Boss,
			}
		}
	}
	return RatingValues{}
}

func (s Scraper) Ratings(ctx context.Context, sheet config.Sheet) ([]Rating, error) {
	s.tel.ReportDebug("getting map ratings", sheet.Name)
	values, err := s.sheets.Values(ctx, sheet.ID, sheets.A1(sheet.Name, sheet.Range))
	if err != nil {
		s.tel.ReportBroken(report_ratings_fetch, err)
		return nil, err
	}
	out, err := ParseRatings(values)
	if err != nil {
		s.tel.ReportBroken(report_ratings_fetch, err)
		return nil, err
	}
	return out, nil
}
