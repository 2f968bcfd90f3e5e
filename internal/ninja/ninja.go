package ninja

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"atlasref/internal/components/assert"
	"atlasref/internal/fetch"
)

var ErrMalformedOverview = errors.New("malformed price overview")

// Line is a single priced item of an item overview.
type Line struct {
	Name string `json:"name"`
	// ChaosValue is kept as the literal JSON number so it is written out unchanged.
	ChaosValue json.Number `json:"chaosValue"`
	DetailsId  string      `json:"detailsId"`
}

type Overview struct {
	Lines []Line `json:"lines"`
}

func (o Overview) validate() error {
	if o.Lines == nil {
		return fmt.Errorf("%w: no lines", ErrMalformedOverview)
	}
	for i, line := range o.Lines {
		switch {
		case line.Name == "":
			return fmt.Errorf("%w: line %d has no name", ErrMalformedOverview, i)
		case line.ChaosValue == "":
			return fmt.Errorf("%w: line %d (%s) has no chaosValue", ErrMalformedOverview, i, line.Name)
		case line.DetailsId == "":
			return fmt.Errorf("%w: line %d (%s) has no detailsId", ErrMalformedOverview, i, line.Name)
		}
	}
	return nil
}

// Client reads item overviews from the price aggregation API.
type Client struct {
	fetch fetch.Client
}

func NewClient(f fetch.Client) Client {
	assert.NotNil(f)
	return Client{fetch: f}
}

func (c Client) Lines(ctx context.Context, link string) ([]Line, error) {
	var overview Overview
	err := c.fetch.GetJSON(ctx, link, &overview)
	if err != nil {
		return nil, fmt.Errorf("ninja: fetch overview: %w", err)
	}
	err = overview.validate()
	if err != nil {
		return nil, fmt.Errorf("ninja: %s: %w", link, err)
	}
	return overview.Lines, nil
}
