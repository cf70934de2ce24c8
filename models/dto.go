package models

type SaveItemIn struct {
	ImageURI    string   `json:"imageUri" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Tags        []string `json:"tags"`
}

type SuggestIn struct {
	SelectedItems SelectionState `json:"selected_items"`
}

type SaveOutfitIn struct {
	Items []ClothingItem `json:"items" validate:"required,min=1"`
	Date  string         `json:"date" validate:"required"`
}

type AnalysisOut struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	ImageURI    string   `json:"image_uri,omitempty"`
}

type CreatedOut struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type MessageOut struct {
	Message string `json:"message"`
}

type StatusOut struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorOut struct {
	Error string `json:"error"`
}
