package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// WardrobeItem is a single tagged garment in a user's closet. The tag
// fields are free text coming from the mobile client; the engine only
// ever reads them.
type WardrobeItem struct {
	JsonModel
	Owner   UserAccount `json:"-"`
	OwnerID uint        `json:"-"`

	Name        string  `json:"name"`
	ImageURL    *string `json:"image_url"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`

	Length        string  `json:"length"`
	Style         string  `json:"style"`
	DesignPattern string  `json:"design_pattern"`
	ClosureType   string  `json:"closure_type"`
	Fit           string  `json:"fit"`
	Material      string  `json:"material"`
	Fastening     *string `json:"fastening"`
	DressCode     string  `json:"dress_code"`
	Season        string  `json:"season"`
	Size          string  `json:"size"`
	Gender        string  `json:"gender"`

	Colors pq.StringArray `gorm:"type:text[]" json:"colors"`
	// canonical color families, denormalized by the worker after upload
	ColorFamilies pq.StringArray `gorm:"type:text[]" json:"color_families"`
	CustomTags    pq.StringArray `gorm:"type:text[]" json:"custom_tags"`
	Moods         pq.StringArray `gorm:"type:text[]" json:"moods"`

	Favorite bool `gorm:"default:false" json:"favorite"`
	// camera, gallery, web
	SourceType string `json:"source_type"`
	// pending until the image upload is confirmed by the worker
	Status     string     `json:"status"`
	LastWornAt *time.Time `json:"last_worn_at"`
}

// SearchText flattens every descriptive tag into one lowercased blob
// for substring scoring.
func (item WardrobeItem) SearchText() string {
	parts := []string{
		item.Name, item.Category, item.Subcategory, item.Length,
		item.Style, item.DesignPattern, item.ClosureType, item.Fit,
		item.Material, item.DressCode, item.Season, item.Gender,
	}
	if item.Fastening != nil {
		parts = append(parts, *item.Fastening)
	}
	parts = append(parts, item.Colors...)
	parts = append(parts, item.CustomTags...)
	parts = append(parts, item.Moods...)
	return strings.ToLower(strings.Join(parts, " "))
}
