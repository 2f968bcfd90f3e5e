package sheets

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"atlasref/internal/components/assert"
	"atlasref/internal/fetch"
)

// ValueRange is the body returned by the spreadsheet values endpoint.
type ValueRange struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

// Client reads cell ranges out of the spreadsheet values API.
type Client struct {
	fetch   fetch.Client
	baseUrl string
	apiKey  string
}

func NewClient(f fetch.Client, baseUrl, apiKey string) Client {
	assert.NotNil(f)
	assert.NotEmptyStr(baseUrl)
	return Client{
		fetch:   f,
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
		apiKey:  apiKey,
	}
}

// A1 joins a sheet name and an optional cell range into range notation.
func A1(sheetName, cellRange string) string {
	if cellRange == "" {
		return sheetName
	}
	return sheetName + "!" + cellRange
}

func (c Client) ValuesUrl(sheetId, rangeExpr string) string {
	query := url.Values{}
	query.Set("key", c.apiKey)
	return fmt.Sprintf(
		"%s/%s/values/%s?%s",
		c.baseUrl,
		url.PathEscape(sheetId),
		url.PathEscape(rangeExpr),
		query.Encode(),
	)
}

// Values returns the rows of the range, rows keep the ragged shape the API
// returns them in (trailing empty cells are omitted upstream).
func (c Client) Values(ctx context.Context, sheetId, rangeExpr string) ([][]string, error) {
	var body ValueRange
	err := c.fetch.GetJSON(ctx, c.ValuesUrl(sheetId, rangeExpr), &body)
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s: %w", rangeExpr, err)
	}
	return body.Values, nil
}

// Cell returns the cell at column i of the row, or "" when the row is shorter.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
