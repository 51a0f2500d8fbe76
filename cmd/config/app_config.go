package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"zesto-backend/internal/api/handlers"
	"zesto-backend/internal/api/routes"
	"zesto-backend/internal/middleware"
	"zesto-backend/internal/utils"
	"zesto-backend/internal/utils/extractor"
	"zesto-backend/internal/utils/imagelookup"
	"zesto-backend/internal/utils/ocr"
	"zesto-backend/internal/utils/storage"
	"zesto-backend/pkg/inventory"
	"zesto-backend/pkg/jwt"
	"zesto-backend/pkg/reconcile"
	"zesto-backend/pkg/scan"
	"zesto-backend/pkg/shopping"
)

func NewApp(ctx context.Context, db *gorm.DB, appLogger *zap.Logger) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         10 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3, err := storage.NewAwsS3(ctx)
	if err != nil {
		return nil, err
	}
	images := imagelookup.NewClientFromConfig(appLogger.Named("imagelookup"))
	recognizer := ocr.NewClientFromConfig()
	receiptExtractor := extractor.NewExtractorFromConfig()

	// Repository
	inventoryRepository := inventory.NewInventoryRepository(db)
	scanRepository := scan.NewScanRepository(db)
	shoppingRepository := shopping.NewShoppingRepository(db)

	// Service
	jwtService := jwt.NewJWTService(utils.GetConfig("JWT_SECRET"))
	reconcileService := reconcile.NewReconcileService(
		inventoryRepository,
		images,
		appLogger.Named("reconcile"),
		reconcile.Config{
			MatchThreshold:   matchThreshold(),
			LookupTimeout:    utils.GetDurationConfig("IMAGE_LOOKUP_TIMEOUT", reconcile.DefaultLookupTimeout),
			PlaceholderImage: imagelookup.PlaceholderImage,
		},
	)
	inventoryService := inventory.NewInventoryService(inventoryRepository, reconcileService, appLogger.Named("inventory"))
	scanService := scan.NewScanService(scanRepository, s3, recognizer, receiptExtractor, reconcileService, appLogger.Named("scan"))
	shoppingService := shopping.NewShoppingService(shoppingRepository, reconcileService, images, appLogger.Named("shopping"))

	// Handler
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, validator)
	scanHandler := handlers.NewScanHandler(scanService, validator)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		InventoryHandler: inventoryHandler,
		ScanHandler:      scanHandler,
		ShoppingHandler:  shoppingHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

func matchThreshold() float64 {
	raw := utils.GetConfig("MATCH_THRESHOLD")
	if raw == "" {
		return reconcile.DefaultMatchThreshold
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || v > 100 {
		log.Warnf("invalid MATCH_THRESHOLD %q, using %.0f", raw, reconcile.DefaultMatchThreshold)
		return reconcile.DefaultMatchThreshold
	}
	return v
}
