package watchstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animeverse/pkg/models"
)

func entry(id int, mt models.MediaType, at int64) models.ContinueWatchingEntry {
	return models.ContinueWatchingEntry{ID: id, MediaType: mt, UpdatedAt: at}
}

func TestAddContinueWatchingCapsAtTen(t *testing.T) {
	var list []models.ContinueWatchingEntry
	for i := 1; i <= 15; i++ {
		list = AddContinueWatching(list, entry(i, models.MediaTypeMovie, int64(i)))
	}

	require.Len(t, list, MaxContinueWatching)
	assert.Equal(t, 15, list[0].ID)
	assert.Equal(t, 6, list[9].ID)
}

func TestAddContinueWatchingDedupesByIDAndType(t *testing.T) {
	list := []models.ContinueWatchingEntry{
		entry(1, models.MediaTypeMovie, 1),
		entry(2, models.MediaTypeTV, 2),
		entry(1, models.MediaTypeTV, 3),
	}

	list = AddContinueWatching(list, entry(1, models.MediaTypeMovie, 10))
	require.Len(t, list, 3)
	assert.Equal(t, int64(10), list[0].UpdatedAt)

	count := 0
	for _, e := range list {
		if e.ID == 1 {
			count++
		}
	}
	// movie 1 and tv 1 are different pairs
	assert.Equal(t, 2, count)
}

func TestToggleMyListRoundTrip(t *testing.T) {
	original := []models.Media{{ID: 10, Title: "A", Genres: []models.Genre{}}}
	m := models.Media{
		ID:    20,
		Title: "B",
		Genres: []models.Genre{
			{ID: 1, Name: "Action"}, {ID: 2, Name: "Drama"}, {ID: 3, Name: "Comedy"}, {ID: 4, Name: "Horror"},
		},
		Credits: &models.Credits{},
		Seasons: []models.Season{{SeasonNumber: 1}},
	}

	added, ok := ToggleMyList(original, m)
	assert.True(t, ok)
	require.Len(t, added, 2)
	assert.Equal(t, 20, added[0].ID)
	assert.Len(t, added[0].Genres, 3)
	assert.Nil(t, added[0].Credits)
	assert.Nil(t, added[0].Seasons)

	back, ok := ToggleMyList(added, m)
	assert.False(t, ok)
	assert.Equal(t, original, back)
}

func TestInList(t *testing.T) {
	list := []models.Media{{ID: 1}, {ID: 2}}
	assert.True(t, InList(list, 2))
	assert.False(t, InList(list, 3))
}
