package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"Grocery-Receipt-Tracker/internal/api/handlers"
	"Grocery-Receipt-Tracker/internal/api/routes"
	"Grocery-Receipt-Tracker/internal/middleware"
	"Grocery-Receipt-Tracker/internal/utils"
	"Grocery-Receipt-Tracker/internal/utils/storage"
	"Grocery-Receipt-Tracker/pkg/jwt"
	"Grocery-Receipt-Tracker/pkg/receipt"
	"Grocery-Receipt-Tracker/pkg/scanning"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	utils.SetLogLevel(utils.GetConfig("LOG_LEVEL"))
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         20 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up request logging and limiter
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
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	scanner, err := scanning.NewGemini(
		utils.GetConfig("GEMINI_API_KEY"),
		utils.GetConfig("GEMINI_MODEL"),
	)
	if err != nil {
		return nil, err
	}

	// Repository
	receiptRepository := receipt.NewReceiptRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	receiptService := receipt.NewReceiptService(receiptRepository, scanner, s3)

	// Handler
	authHandler := handlers.NewAuthHandler(jwtService, validator)
	receiptHandler := handlers.NewReceiptHandler(receiptService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		AuthHandler:    authHandler,
		ReceiptHandler: receiptHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
