package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/semwett0301/rcruit-flow-sub001/internal/config"
	"github.com/semwett0301/rcruit-flow-sub001/internal/handlers"
	"github.com/semwett0301/rcruit-flow-sub001/internal/repositories"
	"github.com/semwett0301/rcruit-flow-sub001/internal/services"
)

// multipartOverhead leaves room for form boundaries so an oversized file still
// reaches the validator and gets a detailed SIZE_EXCEEDED response.
const multipartOverhead = 1 << 20

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Upload registry is optional
	var docRepo repositories.DocumentRepository
	if cfg.Database.Enabled() {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		docRepo = repositories.NewDocumentRepository(db)
		log.Println("✅ Repositories initialized successfully")
	} else {
		log.Println("⚠️  DB_HOST not set, upload registry disabled")
	}

	// Initialize object storage
	ctx := context.Background()
	s3Client, err := services.NewS3Client(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize object storage: %v", err)
	}
	storageService := services.NewStorageService(s3Client, cfg.Storage.Bucket)
	log.Printf("✅ Object storage initialized (%s mode, bucket %s)", cfg.Storage.Mode, cfg.Storage.Bucket)

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize services
	completionService := services.NewCompletionService(geminiService)
	textExtractor := services.NewTextExtractor()
	cvService := services.NewCVService(
		services.NewFileValidator(cfg.Storage.MaxFileSize),
		storageService,
		textExtractor,
		completionService,
	)
	emailService := services.NewEmailService(
		storageService,
		textExtractor,
		completionService,
		cfg.Derivation.Currency,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize Handlers
	cvHandler := handlers.NewCVHandler(cvService, docRepo, cfg.Storage.Bucket)
	emailHandler := handlers.NewEmailHandler(emailService)
	log.Println("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Rcruit Flow API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * cfg.Gemini.Timeout,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + multipartOverhead,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	handlers.RegisterRoutes(app, cvHandler, emailHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
