package cards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"atlasref/internal/components/assert"
	"atlasref/internal/components/telemetry"
	"atlasref/internal/config"
	"atlasref/internal/ninja"
	"atlasref/internal/sheets"

	"github.com/antzucaro/matchr"
	"github.com/shopspring/decimal"
)

const (
	report_fetcher_fetch = "fetcher.fetch"
	report_fetcher_rate  = "fetcher.rate"
	report_fetcher_cards = "fetcher.cards"
)

// columns of a drop weight row
const (
	colName   = 0
	colWeight = 3
)

// significant digits kept when computing rates, the context precision the
// site's previous data files were produced with.
const ratePrecision = 28

var ErrMalformedRates = errors.New("malformed rate sheet")

type Card struct {
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
	Ninja string      `json:"ninja"`
	// Rate is the drop chance in percent, nil when the card has no drop weight.
	Rate *decimal.Decimal `json:"rate,omitempty"`
}

// RateTable holds the drop weight rows and the total weight they divide by.
type RateTable struct {
	Total decimal.Decimal
	Rows  [][]string
}

// ParseRates consumes the total weight out of the first cell of the first row
// and drops every empty row.
func ParseRates(values [][]string) (RateTable, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return RateTable{}, fmt.Errorf("%w: no total weight", ErrMalformedRates)
	}
	total, err := decimal.NewFromString(strings.TrimSpace(values[0][0]))
	if err != nil {
		return RateTable{}, fmt.Errorf("%w: total weight %q: %w", ErrMalformedRates, values[0][0], err)
	}
	if total.IsZero() {
		return RateTable{}, fmt.Errorf("%w: total weight is zero", ErrMalformedRates)
	}

	rows := make([][]string, 0, len(values)-1)
	for _, row := range values[1:] {
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return RateTable{Total: total, Rows: rows}, nil
}

// Find returns the first row whose name cell is exactly name.
func (t RateTable) Find(name string) ([]string, bool) {
	for _, row := range t.Rows {
		if row[colName] == name {
			return row, true
		}
	}
	return nil, false
}

// Closest returns the row name most similar to name, it is only ever used
// as a hint in diagnostics.
func (t RateTable) Closest(name string) string {
	var mostSimilarity float64
	var mostSimilar string
	for _, row := range t.Rows {
		similarity := matchr.JaroWinkler(name, row[colName], false)
		if similarity > mostSimilarity {
			mostSimilarity = similarity
			mostSimilar = row[colName]
		}
	}
	return mostSimilar
}

// Rate computes 100 * weight / total. The product and the quotient are each
// rounded half to even at ratePrecision significant digits.
func (t RateTable) Rate(weight string) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(weight))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: drop weight %q: %w", ErrMalformedRates, weight, err)
	}
	product := roundSignificant(decimal.NewFromInt(100).Mul(parsed), ratePrecision)
	return divSignificant(product, t.Total, ratePrecision), nil
}

// leadingDigit is the power of ten of the most significant digit plus one,
// 123.4 gives 3 and 0.05 gives -1.
func leadingDigit(d decimal.Decimal) int32 {
	return int32(d.NumDigits()) + d.Exponent()
}

func roundSignificant(d decimal.Decimal, digits int32) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	return d.RoundBank(digits - leadingDigit(d))
}

// divSignificant divides num by den rounding half to even once, at the given
// number of significant digits.
func divSignificant(num, den decimal.Decimal, digits int32) decimal.Decimal {
	if num.IsZero() {
		return num
	}

	// the quotient's leading digit is either this or the one below it
	lead := leadingDigit(num) - leadingDigit(den) + 1
	scale := digits - lead
	quotient, remainder := num.QuoRem(den, scale)
	if quotient.IsZero() || leadingDigit(quotient) < lead {
		scale++
		quotient, remainder = num.QuoRem(den, scale)
	}
	if remainder.IsZero() {
		return quotient
	}

	unit := decimal.New(1, -scale)
	half := remainder.Abs().Mul(decimal.NewFromInt(2)).Cmp(den.Abs().Mul(unit))
	odd := quotient.Shift(scale).BigInt().Bit(0) == 1
	if half > 0 || (half == 0 && odd) {
		if num.Sign()*den.Sign() < 0 {
			return quotient.Sub(unit)
		}
		return quotient.Add(unit)
	}
	return quotient
}

// Merge joins every price line with its drop weight row, the result is sorted
// by name. Cards without a matching row keep a nil rate and are reported.
func Merge(rates RateTable, lines []ninja.Line, ninjaTemplate string, tel telemetry.API) ([]Card, error) {
	out := make([]Card, 0, len(lines))
	for _, line := range lines {
		card := Card{
			Name:  line.Name,
			Price: line.ChaosValue,
			Ninja: config.Fill(ninjaTemplate, line.DetailsId),
		}

		row, ok := rates.Find(card.Name)
		if ok && len(row) > colWeight {
			rate, err := rates.Rate(row[colWeight])
			if err != nil {
				return nil, fmt.Errorf("card %s: %w", card.Name, err)
			}
			card.Rate = &rate
		} else {
			tel.ReportWarning(
				report_fetcher_rate,
				fmt.Sprintf("rate for card %s not found", card.Name),
				rates.Closest(card.Name),
			)
		}

		out = append(out, card)
	}

	slices.SortStableFunc(out, func(a, b Card) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// Fetcher retrieves the drop weights and prices and merges them into cards.
type Fetcher struct {
	sheets sheets.Client
	prices ninja.Client
	tel    telemetry.API
}

func NewFetcher(s sheets.Client, prices ninja.Client, tel telemetry.API) Fetcher {
	assert.NotNil(tel)
	return Fetcher{
		sheets: s,
		prices: prices,
		tel:    telemetry.NewScopedAPI("cards", tel),
	}
}

func (f Fetcher) Fetch(ctx context.Context, league string, cfg config.CardConfig) ([]Card, error) {
	f.tel.ReportDebug("getting card rates", cfg.Decks.Name)
	values, err := f.sheets.Values(ctx, cfg.Decks.ID, sheets.A1(cfg.Decks.Name, cfg.Decks.Range))
	if err != nil {
		f.tel.ReportBroken(report_fetcher_fetch, err)
		return nil, err
	}
	rates, err := ParseRates(values)
	if err != nil {
		f.tel.ReportBroken(report_fetcher_fetch, err)
		return nil, err
	}

	pricesUrl := config.Fill(cfg.Prices, league)
	f.tel.ReportDebug("getting card prices", pricesUrl)
	lines, err := f.prices.Lines(ctx, pricesUrl)
	if err != nil {
		f.tel.ReportBroken(report_fetcher_fetch, err)
		return nil, err
	}

	out, err := Merge(rates, lines, cfg.Ninja, f.tel)
	if err != nil {
		f.tel.ReportBroken(report_fetcher_fetch, err)
		return nil, err
	}
	f.tel.ReportCount(report_fetcher_cards, int64(len(out)))
	return out, nil
}

// Names returns the set of card names for membership checks.
func Names(cards []Card) map[string]struct{} {
	out := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		out[c.Name] = struct{}{}
	}
	return out
}
