package ninja

import (
	"context"
	"encoding/json"
	"testing"

	"atlasref/internal/fetch"

	"github.com/stretchr/testify/require"
)

const overviewUrl = "https://poe.ninja/api/data/itemoverview?league=Settlers&type=DivinationCard"

func TestLines(t *testing.T) {
	client := NewClient(fetch.NewFake(map[string]string{
		overviewUrl: `{"lines":[
			{"id":1,"name":"Rusted Coin","chaosValue":3,"detailsId":"rusted-coin"},
			{"id":2,"name":"The Doctor","chaosValue":812.55,"detailsId":"the-doctor"}
		]}`,
	}))

	lines, err := client.Lines(context.Background(), overviewUrl)
	require.NoError(t, err)
	require.Equal(t, []Line{
		{Name: "Rusted Coin", ChaosValue: json.Number("3"), DetailsId: "rusted-coin"},
		{Name: "The Doctor", ChaosValue: json.Number("812.55"), DetailsId: "the-doctor"},
	}, lines)
}

func TestLinesMalformed(t *testing.T) {
	table := []struct {
		name string
		body string
	}{
		{name: "missing lines", body: `{"currencyDetails":[]}`},
		{name: "missing name", body: `{"lines":[{"chaosValue":1,"detailsId":"x"}]}`},
		{name: "missing price", body: `{"lines":[{"name":"Rusted Coin","detailsId":"x"}]}`},
		{name: "missing details id", body: `{"lines":[{"name":"Rusted Coin","chaosValue":1}]}`},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			client := NewClient(fetch.NewFake(map[string]string{overviewUrl: row.body}))
			_, err := client.Lines(context.Background(), overviewUrl)
			require.ErrorIs(t, err, ErrMalformedOverview)
		})
	}
}

func TestLinesEmpty(t *testing.T) {
	client := NewClient(fetch.NewFake(map[string]string{overviewUrl: `{"lines":[]}`}))
	lines, err := client.Lines(context.Background(), overviewUrl)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestLinesTransportFailure(t *testing.T) {
	client := NewClient(fetch.NewFake(nil))
	_, err := client.Lines(context.Background(), overviewUrl)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMalformedOverview)
}
