package controllers

import (
	"fmt"
	"net/http"
	"time"

	"ootdapi/engine"
	"ootdapi/languageutil"
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

type WeatherIn struct {
	Raining      bool    `json:"raining"`
	TemperatureC float64 `json:"temperature_c"`
}

type SuggestOutfitsIn struct {
	Prompt  string    `json:"prompt" validate:"omitempty,max=500"`
	Count   int       `json:"count" validate:"omitempty,min=1,max=5"`
	Weather WeatherIn `json:"weather"`
}

type SkipOutfitIn struct {
	Prompt  string    `json:"prompt" validate:"omitempty,max=500"`
	Weather WeatherIn `json:"weather"`
	// item id lists of the candidates still on deck, used to carry
	// their theme into the replacement
	Remaining [][]int64 `json:"remaining" validate:"omitempty,max=10"`
}

type SaveOutfitIn struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Prompt      string  `json:"prompt" validate:"omitempty,max=500"`
	Occasion    *string `json:"occasion" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	TargetDate  *string `json:"target_date" validate:"omitempty,max=30"`
	ItemIDs     []int64 `json:"item_ids" validate:"required,min=1,max=7"`
}

type CandidateItemOut struct {
	Layer string               `json:"layer"`
	Item  WardrobeItemResponse `json:"item"`
}

type CandidateOut struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Items []CandidateItemOut `json:"items"`
}

type OutfitOut struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Occasion    *string `json:"occasion"`
	Description *string `json:"description"`
	Prompt      string  `json:"prompt"`
	TargetDate  *string `json:"target_date"`
	Favorite    bool    `json:"favorite"`
	WornCount   int     `json:"worn_count"`
	ItemIDs     []int64 `json:"item_ids"`
	CreatedAt   string  `json:"created_at"`
}

type OutfitsController struct {
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *OutfitsController) Routes(g *echo.Group) {
	g.POST("/suggest", controller.Suggest)
	g.POST("/skip", controller.Skip)
	g.POST("/save", controller.Save)
	g.GET("/list", controller.List)
	g.DELETE("/:outfitId", controller.Delete)
	g.POST("/:outfitId/worn", controller.MarkWorn)
}

func (controller *OutfitsController) candidateOut(c echo.Context, cand *engine.OutfitCandidate) CandidateOut {
	items := cand.OrderedItems()
	// borrow the wardrobe presign fan-out so suggestion cards come back
	// with ready image URLs
	wc := WardrobeController{AWSService: controller.AWSService, URLCache: controller.URLCache}
	processed := wc.populatePresignedItemImages(c.Request().Context(), items)

	out := CandidateOut{
		ID:    cand.ID,
		Name:  languageutil.RandomLookName(),
		Items: make([]CandidateItemOut, 0, len(items)),
	}
	for i, kind := range cand.OrderedSlots() {
		out.Items = append(out.Items, CandidateItemOut{Layer: string(kind), Item: processed[i]})
	}
	return out
}

func (controller *OutfitsController) Suggest(c echo.Context) error {
	var req SuggestOutfitsIn
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

	count := req.Count
	if count == 0 {
		count = 3
	}

	query := engine.ParsePrompt(req.Prompt)
	weather := engine.Weather{Raining: req.Weather.Raining, TemperatureC: req.Weather.TemperatureC}
	assembler := engine.NewAssembler(&services.WardrobeInventory{DB: db})
	deck := assembler.BuildDeck(c.Request().Context(), user.ID, query, weather, count)

	candidates := make([]CandidateOut, 0, len(deck))
	for _, cand := range deck {
		candidates = append(candidates, controller.candidateOut(c, cand))
	}
	fmt.Printf("[Suggest] User %v prompt %q -> %v candidates\n", user.ID, req.Prompt, len(candidates))
	return c.JSON(http.StatusOK, echo.Map{
		"prompt":     req.Prompt,
		"candidates": candidates,
	})
}

// remainingCandidates rebuilds ephemeral candidates from the item id
// lists the client still holds, so the replacement can continue their
// theme. Items that no longer exist are just skipped.
func remainingCandidates(db *gorm.DB, ownerID uint, remaining [][]int64) []*engine.OutfitCandidate {
	cands := make([]*engine.OutfitCandidate, 0, len(remaining))
	for _, ids := range remaining {
		if len(ids) == 0 {
			continue
		}
		var items []models.WardrobeItem
		if err := db.Where("owner_id = ? AND id IN ?", ownerID, ids).Find(&items).Error; err != nil {
			sentry.CaptureException(err)
			continue
		}
		cand := &engine.OutfitCandidate{Items: make(map[engine.LayerKind]models.WardrobeItem)}
		for _, item := range items {
			for _, kind := range engine.AllLayers {
				if engine.MatchesLayer(item, kind) {
					cand.Items[kind] = item
					break
				}
			}
		}
		if len(cand.Items) > 0 {
			cands = append(cands, cand)
		}
	}
	return cands
}

func (controller *OutfitsController) Skip(c echo.Context) error {
	var req SkipOutfitIn
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

	query := engine.ParsePrompt(req.Prompt)
	weather := engine.Weather{Raining: req.Weather.Raining, TemperatureC: req.Weather.TemperatureC}
	remaining := remainingCandidates(db, user.ID, req.Remaining)

	assembler := engine.NewAssembler(&services.WardrobeInventory{DB: db})
	replacement := assembler.Replace(c.Request().Context(), user.ID, query, weather, remaining)
	if replacement == nil {
		fmt.Printf("[Skip] No replacement for user %v, deck shrinks\n", user.ID)
		return c.JSON(http.StatusOK, echo.Map{"candidate": nil})
	}
	out := controller.candidateOut(c, replacement)
	return c.JSON(http.StatusOK, echo.Map{"candidate": out})
}

func (controller *OutfitsController) Save(c echo.Context) error {
	var req SaveOutfitIn
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

	// every referenced item must belong to the caller
	var owned int64
	if err := db.Model(&models.WardrobeItem{}).Where("owner_id = ? AND id IN ?", user.ID, req.ItemIDs).Count(&owned).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to verify items"})
	}
	if owned != int64(len(req.ItemIDs)) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Some items do not exist in your closet"})
	}

	var targetDate *time.Time
	if req.TargetDate != nil && *req.TargetDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.TargetDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "target_date must be YYYY-MM-DD"})
		}
		targetDate = &parsed
	}

	outfit := models.Outfit{
		OwnerID:     user.ID,
		Name:        req.Name,
		Occasion:    req.Occasion,
		Description: req.Description,
		Prompt:      req.Prompt,
		TargetDate:  targetDate,
		ItemIDs:     pq.Int64Array(req.ItemIDs),
	}
	if err := db.Create(&outfit).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save outfit"})
	}

	if asynqClient != nil {
		task, err := tasks.NewOutfitSavedTask(outfit.ID)
		if err != nil {
			sentry.CaptureException(err)
		} else if _, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("wardrobe")); err != nil {
			sentry.CaptureException(err)
		}
	}

	return c.JSON(http.StatusCreated, outfitOut(outfit))
}

func outfitOut(outfit models.Outfit) OutfitOut {
	var targetDate *string
	if outfit.TargetDate != nil {
		targetDate = StrPointer(outfit.TargetDate.Format("2006-01-02"))
	}
	return OutfitOut{
		ID:          outfit.ID,
		Name:        outfit.Name,
		Occasion:    outfit.Occasion,
		Description: outfit.Description,
		Prompt:      outfit.Prompt,
		TargetDate:  targetDate,
		Favorite:    outfit.Favorite,
		WornCount:   outfit.WornCount,
		ItemIDs:     outfit.ItemIDs,
		CreatedAt:   outfit.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (controller *OutfitsController) List(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var outfits []models.Outfit
	if err := db.Where("owner_id = ?", user.ID).Order("id desc").Find(&outfits).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfits"})
	}
	out := make([]OutfitOut, 0, len(outfits))
	for _, outfit := range outfits {
		out = append(out, outfitOut(outfit))
	}
	return c.JSON(http.StatusOK, echo.Map{"outfits": out})
}

func (controller *OutfitsController) Delete(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var outfitId uint
	if err := echo.PathParamsBinder(c).Uint("outfitId", &outfitId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	result := db.Where("id = ? and owner_id = ?", outfitId, user.ID).Delete(&models.Outfit{})
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return echo.ErrInternalServerError
	}
	if result.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// MarkWorn bumps the outfit's worn counter and stamps every item of the
// look as last worn now.
func (controller *OutfitsController) MarkWorn(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var outfitId uint
	if err := echo.PathParamsBinder(c).Uint("outfitId", &outfitId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	var outfit models.Outfit
	r := db.Where("id = ? and owner_id = ?", outfitId, user.ID).Limit(1).Find(&outfit)
	if r.Error != nil {
		return echo.ErrInternalServerError
	}
	if r.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	outfit.WornCount++
	db.Save(&outfit)

	now := time.Now()
	if len(outfit.ItemIDs) > 0 {
		db.Model(&models.WardrobeItem{}).
			Where("owner_id = ? AND id IN ?", user.ID, []int64(outfit.ItemIDs)).
			Update("last_worn_at", now)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": outfit.ID, "worn_count": outfit.WornCount})
}
