package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"atlasref/internal/cards"
	"atlasref/internal/components/assert"
	"atlasref/internal/components/telemetry"
	"atlasref/internal/config"
	"atlasref/internal/fetch"
	"atlasref/internal/maps"
	"atlasref/internal/ninja"
	"atlasref/internal/output"
	"atlasref/internal/sheets"
)

const (
	report_pipeline_run   = "pipeline.run"
	report_pipeline_write = "pipeline.write"
)

var ErrMissingApiKey = errors.New("spreadsheet api key is not set")

// Exports selects which data files a run produces.
type Exports struct {
	Cards    bool
	Maps     bool
	Template bool
}

// ParseExports reads the selection argument, every export whose name appears
// anywhere in the argument is selected.
func ParseExports(arg string) Exports {
	return Exports{
		Cards:    strings.Contains(arg, "cards"),
		Maps:     strings.Contains(arg, "maps"),
		Template: strings.Contains(arg, "template"),
	}
}

func (e Exports) Any() bool {
	return e.Cards || e.Maps || e.Template
}

func (e Exports) needsCards() bool {
	return e.Cards || e.Maps
}

func (e Exports) needsMapList() bool {
	return e.Maps || e.Template
}

type Options struct {
	Config  config.Config
	ApiKey  string
	Exports Exports
	OutDir  string
	Fetch   fetch.Client
	Tel     telemetry.API
}

// Result summarizes what a run produced.
type Result struct {
	Cards     int
	RateMiss  int
	Maps      int
	Templates int
	Written   []string
}

// Run fetches everything the selected exports need and writes their files.
// maps.json is only written once every map has been scraped.
func Run(ctx context.Context, opts Options) (Result, error) {
	assert.NotNil(opts.Tel)
	tel := telemetry.NewScopedAPI("pipeline", opts.Tel)

	var result Result
	if !opts.Exports.Any() {
		tel.ReportDebug("nothing selected, expected an argument containing cards, maps or template")
		return result, nil
	}

	exports := opts.Exports
	err := opts.Config.Validate(exports.needsCards(), exports.needsMapList(), exports.Maps)
	if err != nil {
		return result, fmt.Errorf("invalid config: %w", err)
	}
	if opts.ApiKey == "" {
		return result, ErrMissingApiKey
	}
	assert.NotNil(opts.Fetch)
	assert.NotEmptyStr(opts.OutDir)

	cfg := opts.Config
	sheetsClient := sheets.NewClient(opts.Fetch, cfg.Sheets, opts.ApiKey)
	writer := output.NewWriter(opts.OutDir)
	write := func(name string, value any) error {
		path, err := writer.Write(name, value)
		if err != nil {
			tel.ReportBroken(report_pipeline_write, err, name)
			return err
		}
		tel.ReportDebug("wrote data file", path)
		result.Written = append(result.Written, path)
		return nil
	}

	var cardList []cards.Card
	if exports.needsCards() {
		fetcher := cards.NewFetcher(sheetsClient, ninja.NewClient(opts.Fetch), opts.Tel)
		cardList, err = fetcher.Fetch(ctx, cfg.League, cfg.Cards)
		if err != nil {
			tel.ReportBroken(report_pipeline_run, err, "cards")
			return result, fmt.Errorf("cards: %w", err)
		}
		result.Cards = len(cardList)
		for _, c := range cardList {
			if c.Rate == nil {
				result.RateMiss++
			}
		}
		if exports.Cards {
			err = write(output.CardsFile, cardList)
			if err != nil {
				return result, err
			}
		}
	}

	if !exports.needsMapList() {
		return result, nil
	}

	scraper := maps.NewScraper(opts.Fetch, sheetsClient, opts.Tel)
	summaries, err := scraper.List(ctx, cfg.Maps)
	if err != nil {
		tel.ReportBroken(report_pipeline_run, err, "map list")
		return result, fmt.Errorf("map list: %w", err)
	}

	if exports.Template {
		templates := maps.Templates(summaries)
		err = write(output.TemplateFile, templates)
		if err != nil {
			return result, err
		}
		result.Templates = len(templates)
	}

	if !exports.Maps {
		return result, nil
	}

	ratings, err := scraper.Ratings(ctx, cfg.Maps.Ratings)
	if err != nil {
		tel.ReportBroken(report_pipeline_run, err, "map ratings")
		return result, fmt.Errorf("map ratings: %w", err)
	}
	details, err := scraper.Details(ctx, summaries, cardList, ratings, cfg.Maps)
	if err != nil {
		tel.ReportBroken(report_pipeline_run, err, "map details")
		return result, fmt.Errorf("map details: %w", err)
	}
	err = write(output.MapsFile, details)
	if err != nil {
		return result, err
	}
	result.Maps = len(details)

	return result, nil
}
