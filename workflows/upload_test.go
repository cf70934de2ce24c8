package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobeapi/client"
	"wardrobeapi/models"
)

func TestUploadPermissionDenied(t *testing.T) {
	n := &recordingNotifier{}
	upload := NewUpload(&fakeBackend{}, &fakePicker{granted: false, ref: "a.jpg"}, n)

	err := upload.Pick(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, StateIdle, upload.State())
	require.Len(t, n.errors(), 1)
	assert.Equal(t, "Permission Required", n.errors()[0].Title)
}

func TestUploadPickCancelled(t *testing.T) {
	upload := NewUpload(&fakeBackend{}, &fakePicker{granted: true, canceled: true}, &recordingNotifier{})

	require.NoError(t, upload.Pick(context.Background()))
	assert.Equal(t, StateIdle, upload.State())
}

func TestUploadSaveBeforeAnalysisIssuesNoRequest(t *testing.T) {
	backend := &fakeBackend{}
	n := &recordingNotifier{}
	upload := NewUpload(backend, &fakePicker{granted: true, ref: "a.jpg"}, n)

	_, err := upload.Save(context.Background())
	assert.ErrorIs(t, err, ErrNotAnalyzed)

	require.NoError(t, upload.Pick(context.Background()))
	_, err = upload.Save(context.Background())
	assert.ErrorIs(t, err, ErrNotAnalyzed)

	assert.Zero(t, backend.calls)
	require.Len(t, n.errors(), 2)
	for _, e := range n.errors() {
		assert.Equal(t, "Please upload and analyze an image first.", e.Message)
	}
}

func TestUploadAnalyzeWithoutImage(t *testing.T) {
	backend := &fakeBackend{}
	upload := NewUpload(backend, &fakePicker{granted: true}, &recordingNotifier{})

	assert.ErrorIs(t, upload.Analyze(context.Background()), ErrNoImage)
	assert.Zero(t, backend.calls)
}

func TestUploadAnalyzeFailureKeepsImage(t *testing.T) {
	backend := &fakeBackend{err: &client.APIError{Op: "analyze image", StatusCode: 500, Message: "quota exceeded"}}
	n := &recordingNotifier{}
	upload := NewUpload(backend, &fakePicker{granted: true, ref: "a.jpg", content: []byte("img")}, n)
	require.NoError(t, upload.Pick(context.Background()))

	require.Error(t, upload.Analyze(context.Background()))
	assert.Equal(t, StateImageSelected, upload.State())
	assert.Equal(t, "a.jpg", upload.Image())
	require.Len(t, n.errors(), 1)
	assert.Equal(t, "Upload Failed", n.errors()[0].Title)
	assert.Equal(t, "quota exceeded", n.errors()[0].Message)
}

func TestUploadEditCommitsOnLeave(t *testing.T) {
	backend := &fakeBackend{details: &models.ClothingDetails{Description: "red scarf", Tags: []string{"scarf"}}}
	upload := NewUpload(backend, &fakePicker{granted: true, ref: "a.jpg", content: []byte("img")}, &recordingNotifier{})
	require.NoError(t, upload.Pick(context.Background()))
	require.NoError(t, upload.Analyze(context.Background()))
	assert.Equal(t, []byte("img"), backend.analyzed)
	assert.Equal(t, StateAnalyzed, upload.State())
	assert.Equal(t, "red scarf", upload.EditDescription())

	require.NoError(t, upload.ToggleEdit())
	assert.Equal(t, StateEditing, upload.State())
	upload.SetEditDescription("wool scarf")
	assert.Equal(t, "red scarf", upload.Details().Description)

	require.NoError(t, upload.ToggleEdit())
	assert.Equal(t, StateAnalyzed, upload.State())
	assert.Equal(t, "wool scarf", upload.Details().Description)
}

func TestUploadSaveUsesStoredImage(t *testing.T) {
	backend := &fakeBackend{details: &models.ClothingDetails{
		Description:    "coat",
		Tags:           []string{"topwear"},
		StoredImageURI: "clothes/abc.jpg",
	}}
	n := &recordingNotifier{}
	upload := NewUpload(backend, &fakePicker{granted: true, ref: "/tmp/a.jpg"}, n)
	require.NoError(t, upload.Pick(context.Background()))
	require.NoError(t, upload.Analyze(context.Background()))

	id, err := upload.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "item-1", id)
	assert.Equal(t, "clothes/abc.jpg", backend.savedItem.ImageURI)
	assert.Equal(t, StateIdle, upload.State())
	assert.Nil(t, upload.Details())
	assert.Equal(t, "", upload.EditDescription())
}

func TestUploadSaveFailureKeepsState(t *testing.T) {
	backend := &fakeBackend{details: &models.ClothingDetails{Description: "coat", Tags: []string{}}}
	upload := NewUpload(backend, &fakePicker{granted: true, ref: "/tmp/a.jpg"}, &recordingNotifier{})
	require.NoError(t, upload.Pick(context.Background()))
	require.NoError(t, upload.Analyze(context.Background()))

	backend.err = &client.APIError{Op: "save item", Err: errors.New("offline")}
	_, err := upload.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAnalyzed, upload.State())
	assert.Equal(t, "/tmp/a.jpg", upload.Image())
}

func TestUploadStateNames(t *testing.T) {
	assert.Equal(t, "image-selected", StateImageSelected.String())
	assert.Equal(t, "editing", StateEditing.String())
}
