package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animeverse/pkg/models"
)

func sampleStates() []models.WatchState {
	return []models.WatchState{{
		ProfileID: "1",
		ContinueWatching: []models.ContinueWatchingEntry{
			{ID: 1399, MediaType: models.MediaTypeTV, Title: "Game of Thrones", Season: 2, Episode: 3, UpdatedAt: 1700000000000},
			{ID: 550, MediaType: models.MediaTypeMovie, Title: "Fight Club", UpdatedAt: 1700000001000},
		},
		MyList: []models.Media{{ID: 603, MediaType: models.MediaTypeMovie, Title: "The Matrix"}},
	}}
}

func TestWriteStatesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatesCSV(&buf, sampleStates()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, []string{"1", "continue_watching", "1399", "tv", "Game of Thrones", "2", "3", "2023-11-14T22:13:20Z"}, rows[1])
	assert.Equal(t, "", rows[2][5])
	assert.Equal(t, []string{"1", "my_list", "603", "movie", "The Matrix", "", "", ""}, rows[3])
}

func TestWriteStatesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatesJSON(&buf, sampleStates()))

	var got []models.WatchState
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Len(t, got[0].ContinueWatching, 2)
	assert.Equal(t, "The Matrix", got[0].MyList[0].Title)
}

func TestAPIError(t *testing.T) {
	assert.Equal(t, "profile not found", apiError([]byte(`{"error":"profile not found"}`)))
	assert.Equal(t, "bad gateway", apiError([]byte("bad gateway\n")))
}

func TestWebsocketURL(t *testing.T) {
	u, err := websocketURL("https://example.com:8443/api", "/ws")
	require.NoError(t, err)
	assert.Equal(t, "wss://example.com:8443/ws", u)
}
