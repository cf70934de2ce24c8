package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"wardrobeapi/logger"
	"wardrobeapi/models"
	"wardrobeapi/services"
)

const (
	TypeProcessClothing = "generate:process_clothing"
	QueueGenerate       = "generate"
	MaxProcessRetries   = 3
)

// Whitening parameters for stored garment photos.
const (
	whitenLower      uint8 = 200
	whitenUpper      uint8 = 240
	whitenProtection       = 0.3
)

type ClothingProcessingPayload struct {
	ClothingID string `json:"clothing_id"`
}

func NewClient(brokerAddress string) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: brokerAddress})
}

func NewClothingProcessingTask(clothingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ClothingProcessingPayload{ClothingID: clothingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProcessClothing, payload), nil
}

// EnqueueOptions are the options every clothing processing task is submitted with.
func EnqueueOptions() []asynq.Option {
	return []asynq.Option{asynq.MaxRetry(MaxProcessRetries), asynq.Queue(QueueGenerate)}
}

// HandleProcessClothingTask whitens the background of a stored garment photo
// and writes it back under the same key.
func HandleProcessClothingTask(ctx context.Context, t *asynq.Task, db *gorm.DB, awsService services.AWSServiceProvider, bucketName string) error {
	var payload ClothingProcessingPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	log := logger.Log.WithField("clothing", payload.ClothingID)

	var item models.ClothingItem
	if err := db.First(&item, "id = ?", payload.ClothingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[Clothing: %s] not found, skipping", payload.ClothingID)
			return fmt.Errorf("clothing %s not found: %w", payload.ClothingID, asynq.SkipRetry)
		}
		return err
	}
	if !services.IsBucketKey(item.ImageURI) {
		log.Infof("[Clothing: %s] image is not stored in bucket, nothing to process", item.ID)
		return db.Model(&item).Update("processing_status", "completed").Error
	}

	processed, err := whitenStoredImage(ctx, awsService, bucketName, item.ImageURI)
	if err != nil {
		log.WithError(err).Errorf("[Clothing: %s] processing failed", item.ID)
		sentry.CaptureException(fmt.Errorf("[Clothing: %s] processing failed: %w", item.ID, err))
		if saveErr := saveClothingProcessingFail(db, item, err.Error(), true); saveErr != nil {
			return saveErr
		}
		return err
	}

	uploadURL, err := awsService.PresignLink(ctx, bucketName, item.ImageURI)
	if err == nil {
		_, _, err = awsService.UploadToPresignedURL(ctx, uploadURL, processed)
	}
	if err != nil {
		log.WithError(err).Errorf("[Clothing: %s] upload of processed image failed", item.ID)
		sentry.CaptureException(err)
		if saveErr := saveClothingProcessingFail(db, item, err.Error(), true); saveErr != nil {
			return saveErr
		}
		return err
	}

	if err := db.Model(&item).Updates(map[string]interface{}{
		"processing_status":     "completed",
		"process_error_message": nil,
	}).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}
	log.Infof("[Clothing: %s] processed", item.ID)
	return nil
}

func whitenStoredImage(ctx context.Context, awsService services.AWSServiceProvider, bucketName, key string) ([]byte, error) {
	readURL, err := awsService.GetPresignedR2FileReadURL(ctx, bucketName, key)
	if err != nil {
		return nil, err
	}
	original, err := services.ReadFileFromUrl(ctx, readURL)
	if err != nil {
		return nil, err
	}
	return services.WhitenBackgroundFeathered(original, whitenLower, whitenUpper, whitenProtection)
}

func saveClothingProcessingFail(db *gorm.DB, item models.ClothingItem, msg string, shouldRetry bool) error {
	item.ProcessRetryTimes = item.ProcessRetryTimes + 1
	item.ProcessErrorMessage = &msg
	if !shouldRetry || item.ProcessRetryTimes >= MaxProcessRetries {
		item.ProcessingStatus = "failed"
	}
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Clothing: %s] error on saving failed status", item.ID))
		return err
	}
	return nil
}
