package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ClothingItem is a single wardrobe entry.
type ClothingItem struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	ImageURI    string `gorm:"type:text" json:"image_uri"`
	Description string `gorm:"type:text" json:"description"`
	Tags        Tags   `gorm:"type:text" json:"tags"`

	ProcessingStatus    string    `gorm:"default:idle" json:"-"` // idle, pending, completed, failed
	ProcessRetryTimes   int       `json:"-"`
	ProcessErrorMessage *string   `json:"-"`
	CreatedAt           time.Time `json:"-"`
	UpdatedAt           time.Time `json:"-"`
}

func (ClothingItem) TableName() string {
	return "clothing_items"
}

func (item ClothingItem) Category() Category {
	return Classify(item.Tags)
}

// Outfit is a saved grouping of item snapshots. Items are copies taken at save time.
type Outfit struct {
	ID        string        `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Items     ItemSnapshots `gorm:"type:text" json:"items"`
	Date      time.Time     `json:"date"`
	CreatedAt time.Time     `json:"-"`
}

func (Outfit) TableName() string {
	return "saved_outfits"
}

// ClothingDetails is the transient result of an image analysis.
type ClothingDetails struct {
	Description string
	Tags        []string
	// StoredImageURI is set when the backend kept a copy of the analyzed image.
	StoredImageURI string
}

type Tags []string

func (t *Tags) Scan(value interface{}) error {
	return scanJSON(value, t)
}

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	return string(b), err
}

type ItemSnapshots []ClothingItem

func (s *ItemSnapshots) Scan(value interface{}) error {
	return scanJSON(value, s)
}

func (s ItemSnapshots) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]ClothingItem(s))
	return string(b), err
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}
