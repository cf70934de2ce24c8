package controllers

import (
	"net/http"

	"github.com/go-playground/validator"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"wardrobeapi/models"
	"wardrobeapi/services"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ServerOptions struct {
	BucketName     string
	MaxUploadBytes int64
}

// SetupServer wires every route. analyzer, awsService, urlCache and queue may
// be nil; the matching feature is then disabled.
func SetupServer(
	db *gorm.DB,
	analyzer services.ClothingAnalyzer,
	suggester services.OutfitSuggester,
	awsService services.AWSServiceProvider,
	urlCache services.URLCacheServiceProvider,
	queue TaskEnqueuer,
	opts ServerOptions,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__db", db)
			return next(c)
		}
	})
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.StatusOut{Status: "ok", Message: "Server is running"})
	})

	if suggester == nil {
		suggester = services.FirstFitSuggester{}
	}
	images := imageResolver{AWSService: awsService, URLCache: urlCache, BucketName: opts.BucketName}

	root := e.Group("")
	clothingController := ClothingController{
		Analyzer:       analyzer,
		AWSService:     awsService,
		Queue:          queue,
		BucketName:     opts.BucketName,
		MaxUploadBytes: opts.MaxUploadBytes,
		images:         images,
	}
	clothingController.ClothingRoutes(root)

	outfitsController := OutfitsController{Suggester: suggester, images: images}
	outfitsController.OutfitRoutes(root)

	return e
}

func getDB(c echo.Context) (*gorm.DB, bool) {
	db, ok := c.Get("__db").(*gorm.DB)
	return db, ok
}
