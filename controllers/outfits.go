package controllers

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"wardrobeapi/logger"
	"wardrobeapi/models"
	"wardrobeapi/services"
)

// Accepted outfit date layouts. Zone-less timestamps are read as UTC.
var outfitDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"}

type OutfitsController struct {
	Suggester services.OutfitSuggester

	images imageResolver
}

func (controller *OutfitsController) OutfitRoutes(g *echo.Group) {
	g.POST("/suggest", controller.Suggest)
	g.GET("/suggest", controller.Suggest)

	g.POST("/save-outfit", controller.SaveOutfit)
	g.POST("/save_outfit", controller.SaveOutfit)

	for _, prefix := range []string{"/saved_outfits", "/saved-outfits"} {
		g.GET(prefix, controller.ListSavedOutfits)
		g.DELETE(prefix+"/:id", controller.DeleteSavedOutfit)
	}
}

// Suggest completes the posted selection from the stored wardrobe. A GET or an
// empty body starts from an empty selection.
func (controller *OutfitsController) Suggest(c echo.Context) error {
	var req models.SuggestIn
	if c.Request().Method == http.MethodPost && c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		}
	}
	db, ok := getDB(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var wardrobe []models.ClothingItem
	if err := db.Order("created_at asc").Find(&wardrobe).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch clothing items"})
	}

	ctx := c.Request().Context()
	outfit, err := services.ComposeOutfit(ctx, controller.Suggester, wardrobe, req.SelectedItems)
	if err != nil {
		logger.Log.WithError(err).Error("[Suggest] composing outfit failed")
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate outfit suggestion"})
	}
	return c.JSON(http.StatusOK, controller.images.resolve(ctx, outfit))
}

// SaveOutfit stores snapshots of the posted items. Items still in the wardrobe
// are snapshotted from their stored version so image keys stay resolvable.
func (controller *OutfitsController) SaveOutfit(c echo.Context) error {
	var req models.SaveOutfitIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No outfit data provided"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Outfit items and date are required"})
	}
	date, ok := parseOutfitDate(req.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid date format"})
	}
	db, ok := getDB(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ID)
	}
	var stored []models.ClothingItem
	if err := db.Where("id IN ?", ids).Find(&stored).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save outfit"})
	}
	byID := make(map[string]models.ClothingItem, len(stored))
	for _, item := range stored {
		byID[item.ID] = item
	}
	snapshots := make(models.ItemSnapshots, 0, len(req.Items))
	for _, item := range req.Items {
		if s, ok := byID[item.ID]; ok {
			item = s
		}
		if item.Tags == nil {
			item.Tags = models.Tags{}
		}
		snapshots = append(snapshots, item)
	}

	outfit := models.Outfit{ID: uuid.NewString(), Items: snapshots, Date: date}
	if err := db.Create(&outfit).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save outfit"})
	}
	logger.Log.Infof("[Outfit: %s] saved with %d items", outfit.ID, len(outfit.Items))
	return c.JSON(http.StatusCreated, models.CreatedOut{Message: "Outfit saved successfully", ID: outfit.ID})
}

func parseOutfitDate(value string) (time.Time, bool) {
	for _, layout := range outfitDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (controller *OutfitsController) ListSavedOutfits(c echo.Context) error {
	db, ok := getDB(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	var outfits []models.Outfit
	if err := db.Order("created_at desc").Find(&outfits).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch saved outfits"})
	}
	if outfits == nil {
		outfits = []models.Outfit{}
	}
	ctx := c.Request().Context()
	for i := range outfits {
		outfits[i].Items = controller.images.resolve(ctx, outfits[i].Items)
	}
	return c.JSON(http.StatusOK, outfits)
}

func (controller *OutfitsController) DeleteSavedOutfit(c echo.Context) error {
	db, ok := getDB(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	tx := db.Delete(&models.Outfit{}, "id = ?", c.Param("id"))
	if tx.Error != nil {
		sentry.CaptureException(tx.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete outfit"})
	}
	if tx.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Outfit not found"})
	}
	return c.JSON(http.StatusOK, models.MessageOut{Message: "Outfit deleted successfully"})
}
