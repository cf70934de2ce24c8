package services

import (
	"context"
	"fmt"

	"wardrobeapi/models"
)

// FirstFitSuggester picks the first candidate of each category. Used when no
// LLM is configured.
type FirstFitSuggester struct{}

func (FirstFitSuggester) SuggestOutfit(ctx context.Context, candidates map[models.Category][]models.ClothingItem, selection models.SelectionState) (map[models.Category]string, error) {
	picks := map[models.Category]string{}
	for category, items := range candidates {
		if len(items) > 0 {
			picks[category] = items[0].ID
		}
	}
	return picks, nil
}

// ComposeOutfit keeps the selected items and fills each empty slot that has
// wardrobe candidates with the suggester's pick. Picks that are not candidates
// of their category fall back to the first candidate. Selected items are
// replaced by their stored version when the wardrobe holds them.
// The result is ordered topwear, bottomwear, footwear.
func ComposeOutfit(ctx context.Context, suggester OutfitSuggester, wardrobe []models.ClothingItem, selection models.SelectionState) ([]models.ClothingItem, error) {
	byID := make(map[string]models.ClothingItem, len(wardrobe))
	candidates := map[models.Category][]models.ClothingItem{}
	for _, item := range wardrobe {
		byID[item.ID] = item
	}

	slots := map[models.Category]*models.ClothingItem{}
	for _, category := range models.Categories {
		if selected := selection.Slot(category); selected != nil {
			item := *selected
			if stored, ok := byID[item.ID]; ok {
				item = stored
			}
			slots[category] = &item
		}
	}
	for _, item := range wardrobe {
		category := item.Category()
		if category == models.CategoryNone || slots[category] != nil {
			continue
		}
		candidates[category] = append(candidates[category], item)
	}

	if len(candidates) > 0 {
		picks, err := suggester.SuggestOutfit(ctx, candidates, selection)
		if err != nil {
			return nil, fmt.Errorf("suggest outfit: %w", err)
		}
		for category, items := range candidates {
			chosen := items[0]
			for _, item := range items {
				if item.ID == picks[category] {
					chosen = item
					break
				}
			}
			slots[category] = &chosen
		}
	}

	outfit := []models.ClothingItem{}
	for _, category := range models.Categories {
		if item := slots[category]; item != nil {
			outfit = append(outfit, *item)
		}
	}
	return outfit, nil
}
