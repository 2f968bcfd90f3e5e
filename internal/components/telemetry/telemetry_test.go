package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	recorder := NewRecorder()
	tel := NewScopedAPI("maps", NewScopedAPI("outer", recorder))

	tel.ReportBroken("detail.scrape", "Strand Map")
	tel.ReportWarning("detail.row", "no link")
	tel.ReportDebug("getting map data")
	tel.ReportCount("list.maps", 3)

	require.Equal(t, []Report{{Kind: KindBroken, ID: "outer: maps: detail.scrape", Params: []any{"Strand Map"}}}, recorder.Reports(KindBroken))
	require.Len(t, recorder.Warnings("detail.row"), 1)
	require.Empty(t, recorder.Warnings("detail.scrape"))
	require.Equal(t, "outer: maps: getting map data", recorder.Reports(KindDebug)[0].ID)
	require.Equal(t, int64(3), recorder.Reports(KindCount)[0].Count)
}

func TestSlogAPI(t *testing.T) {
	var buffer bytes.Buffer
	tel := SlogAPI{Logger: slog.New(slog.NewJSONHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	tel.ReportBroken("fetcher.fetch", errors.New("timeout"), "Decks")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	require.Equal(t, "ERROR", entry["level"])
	require.Equal(t, "fetcher.fetch", entry["id"])
	require.Equal(t, "timeout", entry["err"])
	require.Equal(t, "Decks", entry["params.1"])
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	recorder := NewRecorder()
	client := resty.New()
	InstrumentResty(client, recorder)

	res, err := client.R().Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode())

	debug := recorder.Reports(KindDebug)
	require.Len(t, debug, 2)
	require.Equal(t, report_resty_request, debug[0].ID)
	require.Equal(t, report_resty_response, debug[1].ID)
	require.Empty(t, recorder.Reports(KindBroken))

	server.Close()
	_, err = client.R().Get(server.URL)
	require.Error(t, err)
	require.Len(t, recorder.Reports(KindBroken), 1)
}
