package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ootdapi/engine"
	"ootdapi/languageutil"
	"ootdapi/models"
	"ootdapi/services"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type WardrobeItemPayload struct {
	ItemID uint `json:"item_id"`
}

type OutfitSavedPayload struct {
	OutfitID uint `json:"outfit_id"`
}

func NewWardrobeItemProcessTask(itemID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(WardrobeItemPayload{ItemID: itemID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask("wardrobe:process_item", payload), nil
}

func NewOutfitSavedTask(outfitID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(OutfitSavedPayload{OutfitID: outfitID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask("outfit:saved", payload), nil
}

func NewDailySuggestionTask() *asynq.Task {
	return asynq.NewTask("outfit:daily_suggestion", []byte{})
}

// HandleWardrobeItemProcessTask finishes item intake after the client
// confirms the image upload: the photo gets a cleaned white background,
// canonical color families are denormalized onto the row so the scorer
// never re-normalizes labels per request, and the item becomes visible
// to the assembler.
func HandleWardrobeItemProcessTask(ctx context.Context, t *asynq.Task, db *gorm.DB, fbApp *firebase.App, awsService services.AWSServiceProvider) error {
	var payload WardrobeItemPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		sentry.CaptureException(fmt.Errorf("[Item Process] Bad payload: %v", err))
		return err
	}

	var item models.WardrobeItem
	if err := db.First(&item, payload.ItemID).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Item Process %v] Item not found: %v", payload.ItemID, err))
		return err
	}

	if awsService != nil && item.ImageURL != nil {
		// A failed cleanup keeps the original upload, the item still
		// becomes usable for suggestions.
		if err := cleanItemPhoto(ctx, awsService, &item); err != nil {
			fmt.Printf("[Item Process %v] Photo cleanup failed: %v\n", item.ID, err)
			sentry.CaptureException(fmt.Errorf("[Item Process %v] Photo cleanup failed: %v", item.ID, err))
		}
	}

	var families []string
	for _, raw := range item.Colors {
		base, ok := engine.NormalizeColor(raw)
		if !ok {
			fmt.Printf("[Item Process %v] Unrecognized color label %q, skipping\n", item.ID, raw)
			continue
		}
		if !contains(families, base) {
			families = append(families, base)
		}
	}
	item.ColorFamilies = pq.StringArray(families)
	item.Status = "ready"

	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Item Process %v] Error saving item: %v", item.ID, err))
		return err
	}
	fmt.Printf("[Item Process %v] Done, %v color families\n", item.ID, len(families))

	if fbApp != nil {
		services.SendNotification(fbApp, db, item.OwnerID,
			"Added to your closet",
			fmt.Sprintf("%s is ready for outfit suggestions", item.Name),
			map[string]string{"item_id": fmt.Sprintf("%d", item.ID), "type": "item_ready"})
	}
	return nil
}

// HandleOutfitSavedTask confirms a saved look to its owner.
func HandleOutfitSavedTask(ctx context.Context, t *asynq.Task, db *gorm.DB, fbApp *firebase.App) error {
	var payload OutfitSavedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit Saved] Bad payload: %v", err))
		return err
	}

	var outfit models.Outfit
	if err := db.First(&outfit, payload.OutfitID).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit Saved %v] Outfit not found: %v", payload.OutfitID, err))
		return err
	}

	if fbApp != nil {
		services.SendNotification(fbApp, db, outfit.OwnerID,
			"Outfit saved",
			fmt.Sprintf("%s is in your lookbook (%d pieces)", outfit.Name, len(outfit.ItemIDs)),
			map[string]string{"outfit_id": fmt.Sprintf("%d", outfit.ID), "type": "outfit_saved"})
	}
	return nil
}

// ScheduledDailySuggestionTask pushes one "today's look" teaser to every
// opted-in user. A user whose closet cannot produce an outfit is simply
// skipped.
func ScheduledDailySuggestionTask(ctx context.Context, t *asynq.Task, db *gorm.DB, fbApp *firebase.App) error {
	fmt.Printf("[Daily Suggestion] Processing for all users\n")

	var users []models.UserAccount
	result := db.Where("banned = ? AND daily_suggestion_enabled = ?", false, true).Find(&users)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Daily Suggestion] Error fetching users: %v", result.Error))
		return result.Error
	}
	fmt.Printf("[Daily Suggestion] Found %d users\n", len(users))

	assembler := engine.NewAssembler(&services.WardrobeInventory{DB: db})
	for _, user := range users {
		cand := assembler.BuildCandidate(ctx, user.ID, engine.ParsePrompt(""), engine.Weather{TemperatureC: 18})
		if cand == nil {
			fmt.Printf("[Daily Suggestion] No look for user %d, skipping\n", user.ID)
			continue
		}
		if fbApp != nil {
			services.SendNotification(fbApp, db, user.ID,
				"Today's look is ready",
				fmt.Sprintf("%s: %d pieces from your closet", languageutil.RandomLookName(), len(cand.OrderedItems())),
				map[string]string{"type": "daily_suggestion"})
		}
		time.Sleep(1 * time.Second) // To avoid hitting rate limits
	}
	return nil
}

func cleanItemPhoto(ctx context.Context, awsService services.AWSServiceProvider, item *models.WardrobeItem) error {
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	readURL, err := awsService.GetPresignedR2FileReadURL(ctx, bucketName, *item.ImageURL)
	if err != nil {
		return err
	}
	raw, err := services.ReadFileFromUrl(readURL)
	if err != nil {
		return err
	}

	cleaned, err := services.CleanItemPhotoBackground(raw, 240, 4.0)
	if err != nil {
		return err
	}

	uploadUrl, err := awsService.PresignLink(ctx, bucketName, *item.ImageURL)
	if err != nil {
		return err
	}
	respBody, statusCode, err := awsService.UploadToPresignedURL(ctx, bucketName, uploadUrl, cleaned)
	fmt.Printf("[Item Process %v] R2 upload size %v, response body: %s, status code: %d\n", item.ID, len(cleaned), respBody, statusCode)
	if err != nil {
		return err
	}
	if statusCode != 200 {
		return fmt.Errorf("photo upload returned status %d", statusCode)
	}
	return nil
}

func contains(items []string, lookFor string) bool {
	for _, item := range items {
		if item == lookFor {
			return true
		}
	}
	return false
}
