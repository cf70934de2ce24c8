package workflows

import (
	"bytes"
	"context"
	"io"
	"time"

	"wardrobeapi/models"
)

type notice struct {
	Level, Title, Message string
}

type recordingNotifier struct {
	notices []notice
}

func (n *recordingNotifier) Info(title, message string) {
	n.notices = append(n.notices, notice{"info", title, message})
}

func (n *recordingNotifier) Error(title, message string) {
	n.notices = append(n.notices, notice{"error", title, message})
}

func (n *recordingNotifier) errors() []notice {
	out := []notice{}
	for _, ntc := range n.notices {
		if ntc.Level == "error" {
			out = append(out, ntc)
		}
	}
	return out
}

// fakeBackend satisfies every backend interface; calls counts each request.
type fakeBackend struct {
	calls int

	items      []models.ClothingItem
	outfits    []models.Outfit
	suggestion []models.ClothingItem
	details    *models.ClothingDetails
	err        error

	lastSelection *models.SelectionState
	savedItem     *models.SaveItemIn
	savedOutfit   []models.ClothingItem
	savedDate     time.Time
	analyzed      []byte

	// during runs once, inside the next backend call.
	during func()
}

func (f *fakeBackend) call() {
	f.call()
	if during := f.during; during != nil {
		f.during = nil
		during()
	}
}

func (f *fakeBackend) ListClothing(ctx context.Context) ([]models.ClothingItem, error) {
	f.call()
	return f.items, f.err
}

func (f *fakeBackend) DeleteItem(ctx context.Context, id string) error {
	f.call()
	return f.err
}

func (f *fakeBackend) Suggest(ctx context.Context, selection models.SelectionState) ([]models.ClothingItem, error) {
	f.call()
	f.lastSelection = &selection
	return f.suggestion, f.err
}

func (f *fakeBackend) SuggestAny(ctx context.Context) ([]models.ClothingItem, error) {
	f.call()
	return f.suggestion, f.err
}

func (f *fakeBackend) SaveOutfit(ctx context.Context, items []models.ClothingItem, date time.Time) (*models.CreatedOut, error) {
	f.call()
	if f.err != nil {
		return nil, f.err
	}
	f.savedOutfit = items
	f.savedDate = date
	return &models.CreatedOut{Message: "Outfit saved successfully", ID: "outfit-1"}, nil
}

func (f *fakeBackend) AnalyzeImage(ctx context.Context, image io.Reader) (*models.ClothingDetails, error) {
	f.call()
	f.analyzed, _ = io.ReadAll(image)
	return f.details, f.err
}

func (f *fakeBackend) SaveItem(ctx context.Context, in models.SaveItemIn) (*models.CreatedOut, error) {
	f.call()
	if f.err != nil {
		return nil, f.err
	}
	f.savedItem = &in
	return &models.CreatedOut{Message: "Item saved successfully", ID: "item-1"}, nil
}

func (f *fakeBackend) ListSavedOutfits(ctx context.Context) ([]models.Outfit, error) {
	f.call()
	return f.outfits, f.err
}

func (f *fakeBackend) DeleteOutfit(ctx context.Context, id string) error {
	f.call()
	return f.err
}

type fakePicker struct {
	granted  bool
	ref      string
	canceled bool
	content  []byte
}

func (p *fakePicker) RequestPermission(ctx context.Context) (bool, error) {
	return p.granted, nil
}

func (p *fakePicker) Pick(ctx context.Context) (string, bool, error) {
	if p.canceled {
		return "", false, nil
	}
	return p.ref, true, nil
}

func (p *fakePicker) Open(ref string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(p.content)), nil
}

func clothing(id string, tags ...string) models.ClothingItem {
	return models.ClothingItem{ID: id, ImageURI: "https://img/" + id, Description: id, Tags: tags}
}
