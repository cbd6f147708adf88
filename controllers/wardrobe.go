package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"ootdapi/engine"
	"ootdapi/models"
	"ootdapi/services"
	"ootdapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type CreateWardrobeItemIn struct {
	Name        string  `json:"name" validate:"omitempty,max=100"`
	FileName    *string `json:"file_name" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,max=100"`
	Subcategory string  `json:"subcategory" validate:"omitempty,max=100"`

	Length        string  `json:"length" validate:"omitempty,max=50"`
	Style         string  `json:"style" validate:"omitempty,max=50"`
	DesignPattern string  `json:"design_pattern" validate:"omitempty,max=50"`
	ClosureType   string  `json:"closure_type" validate:"omitempty,max=50"`
	Fit           string  `json:"fit" validate:"omitempty,max=50"`
	Material      string  `json:"material" validate:"omitempty,max=50"`
	Fastening     *string `json:"fastening" validate:"omitempty,max=50"`
	DressCode     string  `json:"dress_code" validate:"omitempty,max=50"`
	Season        string  `json:"season" validate:"omitempty,max=50"`
	Size          string  `json:"size" validate:"omitempty,max=20"`
	Gender        string  `json:"gender" validate:"omitempty,max=40"`

	Colors     []string `json:"colors" validate:"omitempty,max=10,dive,max=50"`
	CustomTags []string `json:"custom_tags" validate:"omitempty,max=20,dive,max=50"`
	Moods      []string `json:"moods" validate:"omitempty,max=10,dive,max=50"`

	SourceType string `json:"source_type" validate:"omitempty,oneof=camera gallery web"`
}

type WardrobeItemResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Colors      []string `json:"colors"`
	Favorite    bool     `json:"favorite"`
	Status      string   `json:"status"`
	LastWornAt  *string  `json:"last_worn_at,omitempty"`
	Uri         *string  `json:"uri,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type WardrobeItemCreatedResponse struct {
	Item          WardrobeItemResponse `json:"item"`
	FileUploadUrl string               `json:"file_upload_url"`
}

type ClosetListResponse struct {
	Dresses     []WardrobeItemResponse `json:"dresses"`
	Tops        []WardrobeItemResponse `json:"tops"`
	Bottoms     []WardrobeItemResponse `json:"bottoms"`
	Shoes       []WardrobeItemResponse `json:"shoes"`
	Outerwear   []WardrobeItemResponse `json:"outerwear"`
	Bags        []WardrobeItemResponse `json:"bags"`
	Accessories []WardrobeItemResponse `json:"accessories"`
	Other       []WardrobeItemResponse `json:"other"`
}

type WardrobeController struct {
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *WardrobeController) Routes(g *echo.Group) {
	g.POST("/create", controller.CreateItem)
	g.GET("/list", controller.ListCloset)
	g.DELETE("/:itemId", controller.DeleteItem)
	g.POST("/:itemId/favorite", controller.ToggleFavorite)
	g.POST("/:itemId/worn", controller.MarkWorn)
}

func (controller *WardrobeController) CreateItem(c echo.Context) error {
	var req CreateWardrobeItemIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	if req.FileName == nil || *req.FileName == "" {
		sentry.CaptureException(fmt.Errorf("Image was not provided when creating wardrobe item %s, user %v", req.Name, user.ID))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Sorry, it seems image was not provided, please try again"})
	}
	if !services.AllowedImageExtension(*req.FileName) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image format"})
	}

	item := models.WardrobeItem{
		Name:          req.Name,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Length:        req.Length,
		Style:         req.Style,
		DesignPattern: req.DesignPattern,
		ClosureType:   req.ClosureType,
		Fit:           req.Fit,
		Material:      req.Material,
		Fastening:     req.Fastening,
		DressCode:     req.DressCode,
		Season:        req.Season,
		Size:          req.Size,
		Gender:        req.Gender,
		Colors:        pq.StringArray(req.Colors),
		CustomTags:    pq.StringArray(req.CustomTags),
		Moods:         pq.StringArray(req.Moods),
		SourceType:    req.SourceType,
		Status:        "pending",
		OwnerID:       user.ID,
	}
	var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
	safeFileName := fmt.Sprintf("wardrobe/%v/%s", user.ID, *req.FileName)

	uploadUrl, presignErr := controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
	item.ImageURL = &safeFileName
	if presignErr != nil {
		log.Printf("Unable to presign generate for %s!, %s", item.Name, presignErr)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Error while creating item with attachment",
		})
	}
	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}
	if asynqClient != nil {
		task, err := tasks.NewWardrobeItemProcessTask(item.ID)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process item, please try again"})
		}
		info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("wardrobe"))
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process item, please try again"})
		}
		fmt.Println("[Queue] Process wardrobe item task submitted, Item ID: ", item.ID, " Task ID: ", info.ID)
	}

	response := WardrobeItemCreatedResponse{
		Item:          itemResponse(item, nil),
		FileUploadUrl: uploadUrl,
	}

	return c.JSON(http.StatusCreated, response)
}

func itemResponse(item models.WardrobeItem, uri *string) WardrobeItemResponse {
	var lastWorn *string
	if item.LastWornAt != nil {
		lastWorn = StrPointer(item.LastWornAt.Format("2006-01-02T15:04:05Z"))
	}
	return WardrobeItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Subcategory: item.Subcategory,
		Colors:      item.Colors,
		Favorite:    item.Favorite,
		Status:      item.Status,
		LastWornAt:  lastWorn,
		Uri:         uri,
		CreatedAt:   item.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// populatePresignedItemImages enriches raw wardrobe rows with presigned
// read URLs concurrently, with a manual R2 fallback for when the cache
// system itself fails.
func (controller *WardrobeController) populatePresignedItemImages(ctx context.Context, items []models.WardrobeItem) []WardrobeItemResponse {
	if len(items) == 0 {
		return []WardrobeItemResponse{}
	}

	var wg sync.WaitGroup
	processed := make([]WardrobeItemResponse, len(items))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, wardrobeItem := range items {
		wg.Add(1)
		go func(index int, item models.WardrobeItem) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL

				url, err := controller.URLCache.GetReadURL(ctx, objectKey)

				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)

					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})

					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			processed[index] = itemResponse(item, &imageUrl)
		}(i, wardrobeItem)
	}

	wg.Wait()
	return processed
}

func (controller *WardrobeController) ListCloset(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var items []models.WardrobeItem
	if err := db.Where("owner_id = ?", user.ID).Order("id asc").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch closet"})
	}
	processed := controller.populatePresignedItemImages(c.Request().Context(), items)

	response := ClosetListResponse{
		Dresses:     []WardrobeItemResponse{},
		Tops:        []WardrobeItemResponse{},
		Bottoms:     []WardrobeItemResponse{},
		Shoes:       []WardrobeItemResponse{},
		Outerwear:   []WardrobeItemResponse{},
		Bags:        []WardrobeItemResponse{},
		Accessories: []WardrobeItemResponse{},
		Other:       []WardrobeItemResponse{},
	}

	for i, resp := range processed {
		switch {
		case engine.MatchesLayer(items[i], engine.LayerDress):
			response.Dresses = append(response.Dresses, resp)
		case engine.MatchesLayer(items[i], engine.LayerTop):
			response.Tops = append(response.Tops, resp)
		case engine.MatchesLayer(items[i], engine.LayerBottom):
			response.Bottoms = append(response.Bottoms, resp)
		case engine.MatchesLayer(items[i], engine.LayerShoes):
			response.Shoes = append(response.Shoes, resp)
		case engine.MatchesLayer(items[i], engine.LayerOuterwear):
			response.Outerwear = append(response.Outerwear, resp)
		case engine.MatchesLayer(items[i], engine.LayerBag):
			response.Bags = append(response.Bags, resp)
		case engine.MatchesLayer(items[i], engine.LayerAccessory):
			response.Accessories = append(response.Accessories, resp)
		default:
			response.Other = append(response.Other, resp)
		}
	}

	return c.JSON(http.StatusOK, response)
}

func (controller *WardrobeController) DeleteItem(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var itemId uint
	if err := echo.PathParamsBinder(c).Uint("itemId", &itemId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	result := db.Where("id = ? and owner_id = ?", itemId, user.ID).Delete(&models.WardrobeItem{})
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return echo.ErrInternalServerError
	}
	if result.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

func (controller *WardrobeController) ToggleFavorite(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var itemId uint
	if err := echo.PathParamsBinder(c).Uint("itemId", &itemId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	var item models.WardrobeItem
	r := db.Where("id = ? and owner_id = ?", itemId, user.ID).Limit(1).Find(&item)
	if r.Error != nil {
		return echo.ErrInternalServerError
	}
	if r.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	item.Favorite = !item.Favorite
	db.Save(&item)
	return c.JSON(http.StatusOK, echo.Map{"id": item.ID, "favorite": item.Favorite})
}

func (controller *WardrobeController) MarkWorn(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var itemId uint
	if err := echo.PathParamsBinder(c).Uint("itemId", &itemId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	var item models.WardrobeItem
	r := db.Where("id = ? and owner_id = ?", itemId, user.ID).Limit(1).Find(&item)
	if r.Error != nil {
		return echo.ErrInternalServerError
	}
	if r.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	now := time.Now()
	item.LastWornAt = &now
	db.Save(&item)
	return c.JSON(http.StatusOK, echo.Map{"id": item.ID, "last_worn_at": now.Format("2006-01-02T15:04:05Z")})
}
