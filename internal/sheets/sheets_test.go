package sheets

import (
	"context"
	"testing"

	"atlasref/internal/fetch"

	"github.com/stretchr/testify/require"
)

func TestValuesUrl(t *testing.T) {
	client := NewClient(fetch.NewFake(nil), "https://sheets.example.com/v4/spreadsheets/", "secret key")

	require.Equal(
		t,
		"https://sheets.example.com/v4/spreadsheets/sheet-1/values/Map%20Ratings%21A1:F?key=secret+key",
		client.ValuesUrl("sheet-1", A1("Map Ratings", "A1:F")),
	)
	require.Equal(
		t,
		"https://sheets.example.com/v4/spreadsheets/sheet-1/values/Weights?key=secret+key",
		client.ValuesUrl("sheet-1", A1("Weights", "")),
	)
}

func TestValues(t *testing.T) {
	fake := fetch.NewFake(map[string]string{})
	client := NewClient(fake, "https://sheets.example.com", "k")
	fake.Bodies[client.ValuesUrl("id", "Weights")] = `{"range":"Weights!A1:D3","majorDimension":"ROWS","values":[["1000"],[],["Rain of Chaos","","","5"]]}`

	rows, err := client.Values(context.Background(), "id", "Weights")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"1000"}, {}, {"Rain of Chaos", "", "", "5"}}, rows)

	_, err = client.Values(context.Background(), "id", "Missing")
	require.Error(t, err)
}

func TestValuesRejectsNonStringCells(t *testing.T) {
	fake := fetch.NewFake(map[string]string{})
	client := NewClient(fake, "https://sheets.example.com", "k")
	fake.Bodies[client.ValuesUrl("id", "Weights")] = `{"values":[[1000]]}`

	_, err := client.Values(context.Background(), "id", "Weights")
	require.Error(t, err)
}

func TestCell(t *testing.T) {
	row := []string{"Strand Map", "", "4"}
	require.Equal(t, "Strand Map", Cell(row, 0))
	require.Equal(t, "4", Cell(row, 2))
	require.Equal(t, "", Cell(row, 5))
	require.Equal(t, "", Cell(nil, 0))
}
