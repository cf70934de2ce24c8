package workflows_test

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wardrobeapi/client"
	"wardrobeapi/controllers"
	"wardrobeapi/dbhelper"
	"wardrobeapi/models"
	"wardrobeapi/services"
	"wardrobeapi/test"
	"wardrobeapi/workflows"
)

type messages struct {
	infos, errors []string
}

func (m *messages) Info(title, message string) { m.infos = append(m.infos, message) }
func (m *messages) Error(title, message string) { m.errors = append(m.errors, message) }

type photoLibrary struct {
	photo []byte
}

func (p photoLibrary) RequestPermission(ctx context.Context) (bool, error) { return true, nil }
func (p photoLibrary) Pick(ctx context.Context) (string, bool, error) { return "photo-1.jpg", true, nil }
func (p photoLibrary) Open(ref string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(p.photo)), nil
}

func startBackend(t *testing.T, analyzer services.ClothingAnalyzer) (*client.Client, *gorm.DB) {
	t.Helper()
	db := dbhelper.SetupTestDB()
	t.Cleanup(dbhelper.SetupCleaner(db))
	srv := httptest.NewServer(controllers.SetupServer(db, analyzer, nil, nil, nil, nil, controllers.ServerOptions{}))
	t.Cleanup(srv.Close)
	return client.New(srv.URL), db
}

func TestScenarioUploadAnalyzeSave(t *testing.T) {
	ctx := context.Background()
	api, _ := startBackend(t, &test.AnalyzerMock{Details: &models.ClothingDetails{
		Description: "blue jacket",
		Tags:        []string{"topwear", "blue"},
	}})
	notes := &messages{}
	upload := workflows.NewUpload(api, photoLibrary{photo: test.PNGImage(16, 16, color.NRGBA{B: 255, A: 255})}, notes)

	require.NoError(t, upload.Pick(ctx))
	assert.Equal(t, workflows.StateImageSelected, upload.State())
	require.NoError(t, upload.Analyze(ctx))
	assert.Equal(t, workflows.StateAnalyzed, upload.State())
	details := upload.Details()
	require.NotNil(t, details)
	assert.Equal(t, "blue jacket", details.Description)
	assert.Equal(t, []string{"topwear", "blue"}, details.Tags)

	id, err := upload.Save(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Empty(t, upload.Image())
	assert.Nil(t, upload.Details())
	assert.Equal(t, workflows.StateIdle, upload.State())
	assert.Contains(t, notes.infos, "Item saved successfully!")

	catalog := workflows.NewCatalog(api, notes)
	require.NoError(t, catalog.Load(ctx))
	require.Len(t, catalog.Items(), 1)
	assert.Equal(t, "photo-1.jpg", catalog.Items()[0].ImageURI)
	assert.Equal(t, []string{"blue", "topwear"}, catalog.Tags())
	assert.Empty(t, notes.errors)
}

func TestScenarioComposeAndSaveOutfit(t *testing.T) {
	ctx := context.Background()
	api, db := startBackend(t, nil)
	test.FakeClothing(db, "https://img/shirt.jpg", "shirt")
	test.FakeClothing(db, "https://img/jeans.jpg", "jeans")
	test.FakeClothing(db, "https://img/sneakers.jpg", "sneakers")
	notes := &messages{}
	composer := workflows.NewOutfitComposer(api, notes)

	require.NoError(t, composer.LoadWardrobe(ctx))
	require.Len(t, composer.Wardrobe(), 3)
	for _, item := range composer.Wardrobe() {
		assert.True(t, composer.Select(item))
	}
	require.NoError(t, composer.Generate(ctx))
	require.Len(t, composer.Suggestion(), 3)

	_, err := composer.Save(ctx)
	require.NoError(t, err)

	saved := workflows.NewSavedOutfits(api, notes)
	require.NoError(t, saved.Load(ctx))
	require.Len(t, saved.Outfits(), 1)
	outfit := saved.Outfits()[0]
	assert.False(t, outfit.Date.IsZero())
	var tags []string
	for _, item := range outfit.Items {
		tags = append(tags, item.Tags...)
	}
	assert.Equal(t, []string{"shirt", "jeans", "sneakers"}, tags)
	assert.Empty(t, notes.errors)
}

func TestScenarioDeleteUnknownItemLeavesList(t *testing.T) {
	ctx := context.Background()
	api, db := startBackend(t, nil)
	test.FakeClothing(db, "https://img/shirt.jpg", "shirt")
	notes := &messages{}
	catalog := workflows.NewCatalog(api, notes)
	require.NoError(t, catalog.Load(ctx))

	err := catalog.Delete(ctx, "not-there")

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Len(t, catalog.Items(), 1)
	assert.Equal(t, []string{"Item not found"}, notes.errors)
}
