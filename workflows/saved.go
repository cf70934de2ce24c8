package workflows

import (
	"context"

	"wardrobeapi/models"
)

// SavedOutfits lists stored outfits, newest first as returned by the backend.
type SavedOutfits struct {
	backend  OutfitsBackend
	notifier Notifier
	outfits  []models.Outfit
	loading  bool
}

func NewSavedOutfits(backend OutfitsBackend, notifier Notifier) *SavedOutfits {
	return &SavedOutfits{backend: backend, notifier: notifier, outfits: []models.Outfit{}}
}

func (s *SavedOutfits) Loading() bool {
	return s.loading
}

func (s *SavedOutfits) Load(ctx context.Context) error {
	if s.loading {
		return ErrBusy
	}
	s.loading = true
	defer func() { s.loading = false }()

	outfits, err := s.backend.ListSavedOutfits(ctx)
	if err != nil {
		s.notifier.Error("Error", userMessage(err, "Failed to fetch saved outfits"))
		return err
	}
	s.outfits = outfits
	return nil
}

func (s *SavedOutfits) Outfits() []models.Outfit {
	return s.outfits
}

func (s *SavedOutfits) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteOutfit(ctx, id); err != nil {
		s.notifier.Error("Error", userMessage(err, "Failed to delete outfit"))
		return err
	}
	kept := make([]models.Outfit, 0, len(s.outfits))
	for _, outfit := range s.outfits {
		if outfit.ID != id {
			kept = append(kept, outfit)
		}
	}
	s.outfits = kept
	s.notifier.Info("Success", "Outfit deleted successfully")
	return nil
}
