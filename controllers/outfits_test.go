package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobeapi/models"
	"wardrobeapi/test"
)

type failingSuggester struct{}

func (failingSuggester) SuggestOutfit(ctx context.Context, candidates map[models.Category][]models.ClothingItem, selection models.SelectionState) (map[models.Category]string, error) {
	return nil, errors.New("quota exceeded")
}

func decodeItems(t *testing.T, rec *httptest.ResponseRecorder) []models.ClothingItem {
	t.Helper()
	var items []models.ClothingItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	return items
}

func TestSuggestFillsEmptySlots(t *testing.T) {
	f := newFixture(t)
	shirt := test.FakeClothing(f.db, "clothes/shirt.jpg", "shirt")
	jeans := test.FakeClothing(f.db, "https://img/jeans.jpg", "jeans")
	boots := test.FakeClothing(f.db, "https://img/boots.jpg", "Boots")
	test.FakeClothing(f.db, "https://img/hat.jpg", "hat")

	req := test.NewJSONRequest(http.MethodPost, "/suggest", models.SuggestIn{
		SelectedItems: models.SelectionState{Bottomwear: jeans},
	})
	rec := serve(f.server(), req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := decodeItems(t, rec)
	require.Len(t, items, 3)
	assert.Equal(t, shirt.ID, items[0].ID)
	assert.Equal(t, "https://cache.example.com/clothes/shirt.jpg", items[0].ImageURI)
	assert.Equal(t, jeans.ID, items[1].ID)
	assert.Equal(t, boots.ID, items[2].ID)
}

func TestSuggestWithoutBody(t *testing.T) {
	f := newFixture(t)
	test.FakeClothing(f.db, "https://img/shirt.jpg", "t-shirt")

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := serve(f.server(), httptest.NewRequest(method, "/suggest", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		items := decodeItems(t, rec)
		require.Len(t, items, 1)
		assert.Equal(t, models.Tags{"t-shirt"}, items[0].Tags)
	}
}

func TestSuggestEmptyWardrobe(t *testing.T) {
	f := newFixture(t)

	rec := serve(f.server(), httptest.NewRequest(http.MethodGet, "/suggest", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSuggestFailure(t *testing.T) {
	f := newFixture(t)
	test.FakeClothing(f.db, "https://img/shirt.jpg", "shirt")
	h := SetupServer(f.db, nil, failingSuggester{}, nil, nil, nil, ServerOptions{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/suggest", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate outfit suggestion", errorOf(t, rec))
}

func TestSaveOutfitOk(t *testing.T) {
	f := newFixture(t)
	shirt := test.FakeClothing(f.db, "clothes/shirt.jpg", "shirt")
	posted := *shirt
	posted.ImageURI = "https://cache.example.com/clothes/shirt.jpg"

	req := test.NewJSONRequest(http.MethodPost, "/save-outfit", map[string]interface{}{
		"items": []models.ClothingItem{posted},
		"date":  "2024-05-01T10:30:00.000Z",
	})
	rec := serve(f.server(), req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out models.CreatedOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Outfit saved successfully", out.Message)

	var stored models.Outfit
	require.NoError(t, f.db.First(&stored, "id = ?", out.ID).Error)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "clothes/shirt.jpg", stored.Items[0].ImageURI)
	assert.True(t, stored.Date.Equal(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)))
}

func TestSaveOutfitAliasAndUnknownItems(t *testing.T) {
	f := newFixture(t)
	req := test.NewJSONRequestRaw(http.MethodPost, "/save_outfit",
		`{"items":[{"_id":"gone","image_uri":"https://img/x.jpg","description":"x","tags":["shoes"]}],"date":"2024-05-01T10:30:00"}`)

	rec := serve(f.server(), req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var outfits []models.Outfit
	require.NoError(t, f.db.Find(&outfits).Error)
	require.Len(t, outfits, 1)
	assert.Equal(t, "https://img/x.jpg", outfits[0].Items[0].ImageURI)
	assert.Equal(t, models.Tags{"shoes"}, outfits[0].Items[0].Tags)
}

func TestSaveOutfitValidation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]struct {
		body string
		err  string
	}{
		"no items":     {`{"items":[],"date":"2024-05-01"}`, "No outfit data provided"},
		"missing body": {`{}`, "No outfit data provided"},
		"no date":      {`{"items":[{"_id":"a"}]}`, "Outfit items and date are required"},
		"bad date":     {`{"items":[{"_id":"a"}],"date":"yesterday"}`, "Invalid date format"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(f.server(), test.NewJSONRequestRaw(http.MethodPost, "/save-outfit", tc.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.err, errorOf(t, rec))
		})
	}
}

func TestListSavedOutfitsNewestFirst(t *testing.T) {
	f := newFixture(t)
	shirt := test.FakeClothing(f.db, "clothes/shirt.jpg", "shirt")
	older := models.Outfit{ID: "older", Items: models.ItemSnapshots{*shirt}, Date: time.Now().UTC(), CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Outfit{ID: "newer", Items: models.ItemSnapshots{}, Date: time.Now().UTC(), CreatedAt: time.Now()}
	require.NoError(t, f.db.Create(&older).Error)
	require.NoError(t, f.db.Create(&newer).Error)

	for _, path := range []string{"/saved_outfits", "/saved-outfits"} {
		rec := serve(f.server(), httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var outfits []models.Outfit
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outfits))
		require.Len(t, outfits, 2)
		assert.Equal(t, "newer", outfits[0].ID)
		assert.Equal(t, "older", outfits[1].ID)
		assert.Equal(t, "https://cache.example.com/clothes/shirt.jpg", outfits[1].Items[0].ImageURI)
	}
}

func TestListSavedOutfitsEmpty(t *testing.T) {
	f := newFixture(t)

	rec := serve(f.server(), httptest.NewRequest(http.MethodGet, "/saved_outfits", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDeleteSavedOutfit(t *testing.T) {
	f := newFixture(t)
	outfit := models.Outfit{ID: "o1", Items: models.ItemSnapshots{}, Date: time.Now().UTC()}
	require.NoError(t, f.db.Create(&outfit).Error)

	rec := serve(f.server(), httptest.NewRequest(http.MethodDelete, "/saved_outfits/o1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(f.server(), httptest.NewRequest(http.MethodDelete, "/saved-outfits/o1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Outfit not found", errorOf(t, rec))
}
