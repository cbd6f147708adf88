package models

import (
	"time"

	"github.com/lib/pq"
)

// Outfit is a saved look: an ordered list of wardrobe item ids plus
// user-facing metadata. Candidates never touch the database, only a
// finalized outfit does.
type Outfit struct {
	JsonModel
	Owner   UserAccount `json:"-"`
	OwnerID uint        `json:"-"`

	Name        string  `json:"name"`
	Occasion    *string `json:"occasion"`
	Description *string `gorm:"type:text" json:"description"`
	// the prompt that produced the suggestion, kept for "more like this"
	Prompt     string     `json:"prompt"`
	TargetDate *time.Time `json:"target_date"`
	Favorite   bool       `gorm:"default:false" json:"favorite"`
	WornCount  int        `gorm:"default:0" json:"worn_count"`

	// display order: dress/top, outerwear, bottom, shoes, bag, accessory
	ItemIDs pq.Int64Array `gorm:"type:bigint[]" json:"item_ids"`
}
