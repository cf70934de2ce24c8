package workflows

import (
	"context"
	"time"

	"wardrobeapi/models"
)

// Section is one category column of the wardrobe shown while composing.
type Section struct {
	Category models.Category
	Title    string
	Items    []models.ClothingItem
}

var sectionTitles = map[models.Category]string{
	models.Topwear:    "Tops",
	models.Bottomwear: "Bottoms",
	models.Footwear:   "Footwear",
}

// OutfitComposer drives selection, suggestion and saving of an outfit.
type OutfitComposer struct {
	backend  SuggestBackend
	notifier Notifier
	// Now stamps saved outfits.
	Now func() time.Time

	wardrobe   []models.ClothingItem
	selection  models.SelectionState
	suggestion []models.ClothingItem
	loading    bool
	saving     bool
}

func NewOutfitComposer(backend SuggestBackend, notifier Notifier) *OutfitComposer {
	return &OutfitComposer{
		backend:    backend,
		notifier:   notifier,
		Now:        time.Now,
		wardrobe:   []models.ClothingItem{},
		suggestion: []models.ClothingItem{},
	}
}

func (o *OutfitComposer) LoadWardrobe(ctx context.Context) error {
	items, err := o.backend.ListClothing(ctx)
	if err != nil {
		o.notifier.Error("Error", userMessage(err, "Failed to fetch clothing items"))
		return err
	}
	o.wardrobe = items
	return nil
}

func (o *OutfitComposer) Wardrobe() []models.ClothingItem {
	return o.wardrobe
}

// Sections groups the wardrobe by category vocabulary. An item whose tags
// span several vocabularies appears in each matching section.
func (o *OutfitComposer) Sections() []Section {
	sections := make([]Section, 0, len(models.Categories))
	for _, category := range models.Categories {
		section := Section{Category: category, Title: sectionTitles[category], Items: []models.ClothingItem{}}
		for _, item := range o.wardrobe {
			if models.InCategory(item.Tags, category) {
				section.Items = append(section.Items, item)
			}
		}
		sections = append(sections, section)
	}
	return sections
}

// Select toggles item in its category slot. Any change discards the current suggestion.
func (o *OutfitComposer) Select(item models.ClothingItem) bool {
	next, changed := o.selection.Select(item)
	if !changed {
		return false
	}
	o.selection = next
	o.suggestion = []models.ClothingItem{}
	return true
}

func (o *OutfitComposer) Selection() models.SelectionState {
	return o.selection
}

func (o *OutfitComposer) Suggestion() []models.ClothingItem {
	return o.suggestion
}

func (o *OutfitComposer) Loading() bool {
	return o.loading
}

// Generate requests a suggestion that completes the current selection.
func (o *OutfitComposer) Generate(ctx context.Context) error {
	return o.generate(ctx, func() ([]models.ClothingItem, error) {
		return o.backend.Suggest(ctx, o.selection)
	})
}

// GenerateAny requests a suggestion without sending the selection.
func (o *OutfitComposer) GenerateAny(ctx context.Context) error {
	return o.generate(ctx, func() ([]models.ClothingItem, error) {
		return o.backend.SuggestAny(ctx)
	})
}

func (o *OutfitComposer) generate(ctx context.Context, call func() ([]models.ClothingItem, error)) error {
	if o.loading {
		return ErrBusy
	}
	o.loading = true
	defer func() { o.loading = false }()

	items, err := call()
	if err != nil {
		o.suggestion = []models.ClothingItem{}
		o.notifier.Error("Error", userMessage(err, "Failed to generate outfit suggestion"))
		return err
	}
	o.suggestion = items
	return nil
}

// Save stores the current suggestion. The suggestion stays in place afterwards.
func (o *OutfitComposer) Save(ctx context.Context) (string, error) {
	if len(o.suggestion) == 0 {
		o.notifier.Error("Error", "Please generate an outfit first.")
		return "", ErrEmptySuggestion
	}
	if o.saving {
		return "", ErrBusy
	}
	o.saving = true
	defer func() { o.saving = false }()

	out, err := o.backend.SaveOutfit(ctx, o.suggestion, o.Now())
	if err != nil {
		o.notifier.Error("Error", userMessage(err, "Failed to save outfit"))
		return "", err
	}
	o.notifier.Info("Success", "Outfit saved successfully!")
	return out.ID, nil
}
