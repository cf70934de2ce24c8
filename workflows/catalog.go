package workflows

import (
	"context"
	"sort"

	"wardrobeapi/models"
)

// Catalog is the browsable list of wardrobe items with tag filtering.
type Catalog struct {
	backend  CatalogBackend
	notifier Notifier
	items    []models.ClothingItem
	loading  bool
}

func NewCatalog(backend CatalogBackend, notifier Notifier) *Catalog {
	return &Catalog{backend: backend, notifier: notifier, items: []models.ClothingItem{}}
}

func (c *Catalog) Loading() bool {
	return c.loading
}

// Load replaces the item list. On failure the last known list is kept.
func (c *Catalog) Load(ctx context.Context) error {
	if c.loading {
		return ErrBusy
	}
	c.loading = true
	defer func() { c.loading = false }()

	items, err := c.backend.ListClothing(ctx)
	if err != nil {
		c.notifier.Error("Error", userMessage(err, "Failed to fetch clothing items"))
		return err
	}
	c.items = items
	return nil
}

func (c *Catalog) Items() []models.ClothingItem {
	return c.items
}

// Filter returns the full list for a nil tag, otherwise the items carrying the
// exact tag in their original order.
func (c *Catalog) Filter(tag *string) []models.ClothingItem {
	if tag == nil {
		return c.items
	}
	filtered := []models.ClothingItem{}
	for _, item := range c.items {
		for _, t := range item.Tags {
			if t == *tag {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}

// Tags returns the distinct tags of the loaded items, sorted.
func (c *Catalog) Tags() []string {
	seen := map[string]struct{}{}
	tags := []string{}
	for _, item := range c.items {
		for _, tag := range item.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// Delete removes an item on the backend and then from the local list.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.backend.DeleteItem(ctx, id); err != nil {
		c.notifier.Error("Error", userMessage(err, "Failed to delete item"))
		return err
	}
	kept := make([]models.ClothingItem, 0, len(c.items))
	for _, item := range c.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	return nil
}
