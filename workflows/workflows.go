// Package workflows holds the client-side state machines behind each screen:
// the catalog, outfit composition, image upload and saved outfits. A workflow
// value is owned by one caller and is not safe for concurrent use.
package workflows

import (
	"context"
	"errors"
	"io"
	"time"

	"wardrobeapi/client"
	"wardrobeapi/models"
)

var (
	ErrPermissionDenied = errors.New("media library permission denied")
	ErrNoImage          = errors.New("no image selected")
	ErrNotAnalyzed      = errors.New("image has not been analyzed")
	ErrEmptySuggestion  = errors.New("no suggestion to save")
	ErrBusy             = errors.New("operation already in progress")
)

// Notifier surfaces user-facing messages.
type Notifier interface {
	Info(title, message string)
	Error(title, message string)
}

type CatalogBackend interface {
	ListClothing(ctx context.Context) ([]models.ClothingItem, error)
	DeleteItem(ctx context.Context, id string) error
}

type SuggestBackend interface {
	ListClothing(ctx context.Context) ([]models.ClothingItem, error)
	Suggest(ctx context.Context, selection models.SelectionState) ([]models.ClothingItem, error)
	SuggestAny(ctx context.Context) ([]models.ClothingItem, error)
	SaveOutfit(ctx context.Context, items []models.ClothingItem, date time.Time) (*models.CreatedOut, error)
}

type UploadBackend interface {
	AnalyzeImage(ctx context.Context, image io.Reader) (*models.ClothingDetails, error)
	SaveItem(ctx context.Context, in models.SaveItemIn) (*models.CreatedOut, error)
}

type OutfitsBackend interface {
	ListSavedOutfits(ctx context.Context) ([]models.Outfit, error)
	DeleteOutfit(ctx context.Context, id string) error
}

// MediaPicker abstracts the device image library.
type MediaPicker interface {
	RequestPermission(ctx context.Context) (bool, error)
	// Pick returns the chosen image reference; ok is false when the user cancels.
	Pick(ctx context.Context) (ref string, ok bool, err error)
	Open(ref string) (io.ReadCloser, error)
}

// userMessage prefers the backend's {"error"} text, then fallback.
func userMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
