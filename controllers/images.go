package controllers

import (
	"context"
	"sync"

	"github.com/getsentry/sentry-go"

	"wardrobeapi/logger"
	"wardrobeapi/models"
	"wardrobeapi/services"
)

// imageResolver swaps bucket keys for presigned read URLs in responses.
type imageResolver struct {
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
	BucketName string
}

func (r imageResolver) enabled() bool {
	return r.AWSService != nil && r.BucketName != ""
}

// resolve returns copies of items with presigned image URLs, one goroutine per
// item. A failing cache falls back to presigning directly; if that fails too
// the key is left as is.
func (r imageResolver) resolve(ctx context.Context, items []models.ClothingItem) []models.ClothingItem {
	resolved := make([]models.ClothingItem, len(items))
	copy(resolved, items)
	if !r.enabled() {
		return resolved
	}

	var wg sync.WaitGroup
	for i := range resolved {
		if !services.IsBucketKey(resolved[i].ImageURI) {
			continue
		}
		wg.Add(1)
		go func(item *models.ClothingItem) {
			defer wg.Done()
			if url, ok := r.readURL(ctx, item.ImageURI); ok {
				item.ImageURI = url
			}
		}(&resolved[i])
	}
	wg.Wait()
	return resolved
}

func (r imageResolver) readURL(ctx context.Context, objectKey string) (string, bool) {
	if r.URLCache != nil {
		url, err := r.URLCache.GetReadURL(ctx, objectKey)
		if err == nil {
			return url, true
		}
		logger.Log.Warnf("[URLCache] cache failed for key '%s': %v, presigning directly", objectKey, err)
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("failure_type", "cache_system")
			scope.SetExtra("objectKey", objectKey)
			sentry.CaptureException(err)
		})
	}

	url, err := r.AWSService.GetPresignedR2FileReadURL(ctx, r.BucketName, objectKey)
	if err != nil {
		logger.Log.Errorf("[Storage] presign failed for key '%s': %v", objectKey, err)
		sentry.CaptureException(err)
		return "", false
	}
	return url, true
}
