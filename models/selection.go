package models

// SelectionState holds at most one item per category while an outfit is being composed.
// The zero value is the initial state with all slots empty.
type SelectionState struct {
	Topwear    *ClothingItem `json:"topwear"`
	Bottomwear *ClothingItem `json:"bottomwear"`
	Footwear   *ClothingItem `json:"footwear"`
}

// Slot returns the item held for category, or nil.
func (s SelectionState) Slot(category Category) *ClothingItem {
	switch category {
	case Topwear:
		return s.Topwear
	case Bottomwear:
		return s.Bottomwear
	case Footwear:
		return s.Footwear
	}
	return nil
}

func (s SelectionState) withSlot(category Category, item *ClothingItem) SelectionState {
	switch category {
	case Topwear:
		s.Topwear = item
	case Bottomwear:
		s.Bottomwear = item
	case Footwear:
		s.Footwear = item
	}
	return s
}

// Select applies one selection step and returns the next state. Items that
// classify as none are not selectable and leave the state untouched (changed=false).
// Selecting the item already held in its slot clears the slot; any other item
// replaces the occupant.
func (s SelectionState) Select(item ClothingItem) (next SelectionState, changed bool) {
	category := item.Category()
	if category == CategoryNone {
		return s, false
	}
	current := s.Slot(category)
	if current != nil && current.ID == item.ID {
		return s.withSlot(category, nil), true
	}
	selected := item
	return s.withSlot(category, &selected), true
}

// IsSelected reports whether item occupies the slot of its category.
func (s SelectionState) IsSelected(item ClothingItem) bool {
	current := s.Slot(item.Category())
	return current != nil && current.ID == item.ID
}

// Items returns the occupied slots in topwear, bottomwear, footwear order.
func (s SelectionState) Items() []ClothingItem {
	items := make([]ClothingItem, 0, len(Categories))
	for _, category := range Categories {
		if item := s.Slot(category); item != nil {
			items = append(items, *item)
		}
	}
	return items
}

func (s SelectionState) IsEmpty() bool {
	return s.Topwear == nil && s.Bottomwear == nil && s.Footwear == nil
}
