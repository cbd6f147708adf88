package services

import (
	"context"
	"fmt"

	"ootdapi/engine"
	"ootdapi/models"

	"gorm.io/gorm"
)

// closet sizes are small; one bounded scan per layer fetch keeps the
// classifier in Go instead of trying to express it in SQL
const inventoryScanCap = 1000

// WardrobeInventory serves the engine's layer buckets from Postgres.
// Classification happens in memory because the layer rules are text
// matching over several tag fields.
type WardrobeInventory struct {
	DB *gorm.DB
}

func (w *WardrobeInventory) FetchItems(ctx context.Context, ownerID uint, kind engine.LayerKind, limit int) ([]models.WardrobeItem, error) {
	var items []models.WardrobeItem
	err := w.DB.WithContext(ctx).
		Where("owner_id = ? AND status <> ?", ownerID, "pending").
		Order("id asc").
		Limit(inventoryScanCap).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("wardrobe scan for user %v: %w", ownerID, err)
	}

	bucket := make([]models.WardrobeItem, 0, len(items))
	for _, item := range items {
		if !engine.MatchesLayer(item, kind) {
			continue
		}
		bucket = append(bucket, item)
		if limit > 0 && len(bucket) >= limit {
			break
		}
	}
	return bucket, nil
}
