package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSheetsBaseUrl = "https://sheets.googleapis.com/v4/spreadsheets"
	DefaultTimeout       = 60 * time.Second
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	// Placeholder substituted in every url template.
	Placeholder = "{}"
)

// Document is the root of the configuration file, everything lives under `data`.
type Document struct {
	Data Config `json:"data" yaml:"data"`
}

type Config struct {
	League string     `json:"league" yaml:"league"`
	Sheets string     `json:"sheets" yaml:"sheets"`
	Http   HttpConfig `json:"http" yaml:"http"`
	Cards  CardConfig `json:"cards" yaml:"cards"`
	Maps   MapConfig  `json:"maps" yaml:"maps"`
}

type HttpConfig struct {
	Timeout   Duration `json:"timeout" yaml:"timeout"`
	UserAgent string   `json:"user_agent" yaml:"user_agent"`
}

type Sheet struct {
	ID    string `json:"sheet-id" yaml:"sheet-id"`
	Name  string `json:"sheet-name" yaml:"sheet-name"`
	Range string `json:"sheet-range" yaml:"sheet-range"`
}

// CardConfig configures the card data fetcher.
type CardConfig struct {
	Decks Sheet `json:"decks" yaml:"decks"`
	// Prices is the price source url, `{}` is replaced with the league.
	Prices string `json:"prices" yaml:"prices"`
	// Ninja is the per-card detail link, `{}` is replaced with the price line's details id.
	Ninja string `json:"ninja" yaml:"ninja"`
}

// MapConfig configures the map list, rating and detail fetchers.
type MapConfig struct {
	List    string `json:"list" yaml:"list"`
	Poedb   string `json:"poedb" yaml:"poedb"`
	Cards   string `json:"cards" yaml:"cards"`
	Wiki    string `json:"wiki" yaml:"wiki"`
	Ratings Sheet  `json:"ratings" yaml:"ratings"`
}

// WithDefaults fills in the optional fields.
func (c Config) WithDefaults() Config {
	if c.Sheets == "" {
		c.Sheets = DefaultSheetsBaseUrl
	}
	if c.Http.Timeout <= 0 {
		c.Http.Timeout = Duration(DefaultTimeout)
	}
	if c.Http.UserAgent == "" {
		c.Http.UserAgent = DefaultUserAgent
	}
	return c
}

// Validate checks the fields required by the fetchers that are about to run.
func (c Config) Validate(cards, mapList, mapDetails bool) error {
	var errs []error
	require := func(field, value string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is required", field))
		}
	}
	template := func(field, value string) {
		require(field, value)
		if value != "" && !strings.Contains(value, Placeholder) {
			errs = append(errs, fmt.Errorf("%s must contain %s", field, Placeholder))
		}
	}

	if cards {
		require("data.league", c.League)
		require("data.cards.decks.sheet-id", c.Cards.Decks.ID)
		require("data.cards.decks.sheet-name", c.Cards.Decks.Name)
		template("data.cards.prices", c.Cards.Prices)
		template("data.cards.ninja", c.Cards.Ninja)
	}
	if mapList {
		require("data.maps.list", c.Maps.List)
		template("data.maps.poedb", c.Maps.Poedb)
	}
	if mapDetails {
		template("data.maps.cards", c.Maps.Cards)
		template("data.maps.wiki", c.Maps.Wiki)
		require("data.maps.ratings.sheet-id", c.Maps.Ratings.ID)
		require("data.maps.ratings.sheet-name", c.Maps.Ratings.Name)
		require("data.maps.ratings.sheet-range", c.Maps.Ratings.Range)
	}

	return errors.Join(errs...)
}

// Fill substitutes every placeholder of the template with value.
func Fill(template, value string) string {
	return strings.ReplaceAll(template, Placeholder, value)
}

// Duration is a time.Duration that decodes from strings like "30s".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func parseDuration(text string) (Duration, error) {
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", text, err)
	}
	return Duration(parsed), nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var text string
	err := json.Unmarshal(b, &text)
	if err != nil {
		return err
	}
	*d, err = parseDuration(text)
	return err
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	err := node.Decode(&text)
	if err != nil {
		return err
	}
	*d, err = parseDuration(text)
	return err
}
