package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/labstack/echo/v4"

	"wardrobeapi/logger"
	"wardrobeapi/models"
	"wardrobeapi/services"
	"wardrobeapi/tasks"
)

const defaultMaxUploadBytes = 16 << 20

type ClothingController struct {
	Analyzer       services.ClothingAnalyzer
	AWSService     services.AWSServiceProvider
	Queue          TaskEnqueuer
	BucketName     string
	MaxUploadBytes int64

	images imageResolver
}

func (controller *ClothingController) ClothingRoutes(g *echo.Group) {
	g.POST("/upload", controller.UploadImage)
	g.POST("/save_item", controller.SaveItem)
	g.GET("/clothing", controller.ListClothing)
	g.DELETE("/clothing/:id", controller.DeleteClothing)
}

func (controller *ClothingController) maxUploadBytes() int64 {
	if controller.MaxUploadBytes > 0 {
		return controller.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}

// UploadImage analyzes an uploaded garment photo and, when storage is
// configured, keeps the normalized image in the bucket.
func (controller *ClothingController) UploadImage(c echo.Context) error {
	maxBytes := controller.maxUploadBytes()
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBytes+1<<20)

	file, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "Image is too large"})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No image uploaded"})
	}
	if file.Filename == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid image file"})
	}
	if file.Size > maxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "Image is too large"})
	}
	if controller.Analyzer == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Image analysis is not configured"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid image file"})
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid image file"})
	}
	if !filetype.IsImage(data) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image type"})
	}

	prepared, err := services.PrepareGarmentImage(data, services.MaxImageSide)
	if err != nil {
		logger.Log.WithError(err).Warn("[Upload] could not decode image")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Could not read image"})
	}

	ctx := c.Request().Context()
	details, err := controller.Analyzer.AnalyzeClothing(ctx, prepared, "image/jpeg")
	if err != nil {
		logger.Log.WithError(err).Error("[Upload] analysis failed")
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	response := models.AnalysisOut{Description: details.Description, Tags: details.Tags}
	if response.Tags == nil {
		response.Tags = []string{}
	}
	if controller.AWSService != nil && controller.BucketName != "" {
		key := fmt.Sprintf("%s%s.jpg", services.BucketKeyPrefix, uuid.NewString())
		if err := controller.storeImage(c, key, prepared); err != nil {
			logger.Log.WithError(err).Errorf("[Upload] storing %s failed", key)
			sentry.CaptureException(err)
		} else {
			response.ImageURI = key
		}
	}
	return c.JSON(http.StatusOK, response)
}

func (controller *ClothingController) storeImage(c echo.Context, key string, data []byte) error {
	ctx := c.Request().Context()
	uploadURL, err := controller.AWSService.PresignLink(ctx, controller.BucketName, key)
	if err != nil {
		return err
	}
	_, _, err = controller.AWSService.UploadToPresignedURL(ctx, uploadURL, data)
	return err
}

func (controller *ClothingController) SaveItem(c echo.Context) error {
	var req models.SaveItemIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Image URI and description are required"})
	}
	db, ok := getDB(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	item := models.ClothingItem{
		ID:               uuid.NewString(),
		ImageURI:         req.ImageURI,
		Description:      req.Description,
		Tags:             req.Tags,
		ProcessingStatus: "idle",
	}
	if item.Tags == nil {
		item.Tags = models.Tags{}
	}
	processImage := controller.Queue != nil && services.IsBucketKey(item.ImageURI)
	if processImage {
		item.ProcessingStatus = "pending"
	}
	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save item"})
	}

	if processImage {
		task, err := tasks.NewClothingProcessingTask(item.ID)
		if err == nil {
			info, enqueueErr := controller.Queue.Enqueue(task, tasks.EnqueueOptions()...)
			err = enqueueErr
			if err == nil {
				logger.Log.Infof("[Queue] Process clothing task submitted, Clothing ID: %s Task ID: %s", item.ID, info.ID)
			}
		}
		if err != nil {
			// item stays saved with its original photo
			logger.Log.WithError(err).Errorf("[Clothing: %s] could not enqueue processing", item.ID)
			sentry.CaptureException(err)
			db.Model(&item).Update("processing_status", "failed")
		}
	}

	return c.JSON(http.StatusCreated, models.CreatedOut{Message: "Item saved successfully", ID: item.ID})
}

func (controller *ClothingController) ListClothing(c echo.Context) error {
	db, ok := getDB(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	var items []models.ClothingItem
	if err := db.Order("created_at asc").Find(&items).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch clothing items"})
	}
	return c.JSON(http.StatusOK, controller.images.resolve(c.Request().Context(), items))
}

func (controller *ClothingController) DeleteClothing(c echo.Context) error {
	db, ok := getDB(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	id := c.Param("id")
	tx := db.Delete(&models.ClothingItem{}, "id = ?", id)
	if tx.Error != nil {
		sentry.CaptureException(tx.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete item"})
	}
	if tx.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}
	logger.Log.Infof("[Clothing: %s] deleted", id)
	return c.JSON(http.StatusOK, models.MessageOut{Message: "Item deleted successfully"})
}
