package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/semwett0301/rcruit-flow-sub001/internal/config"
	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
	"github.com/semwett0301/rcruit-flow-sub001/internal/services"
)

// Runs validate, store and extract against local CV files:
//
//	go run scripts/extract_cv.go ./cvs/jane.pdf ./cvs/john.docx
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <file>...", filepath.Base(os.Args[0]))
	}

	log.Println("🚀 Starting CV extraction...")

	// Load configuration
	cfg := config.Load()
	ctx := context.Background()

	// Initialize services
	s3Client, err := services.NewS3Client(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize object storage: %v", err)
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	cvService := services.NewCVService(
		services.NewFileValidator(cfg.Storage.MaxFileSize),
		services.NewStorageService(s3Client, cfg.Storage.Bucket),
		services.NewTextExtractor(),
		services.NewCompletionService(geminiService),
	)

	successCount := 0
	failCount := 0

	for _, path := range os.Args[1:] {
		log.Printf("\n📄 Processing: %s", path)

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("   ⚠️  Could not read file, skipping: %v", err)
			failCount++
			continue
		}

		doc := &models.UploadedDocument{
			Buffer:           data,
			DeclaredMimeType: services.MimeTypeForFilename(path),
			OriginalFilename: filepath.Base(path),
			DeclaredSize:     int64(len(data)),
		}

		key, err := cvService.ValidateAndStore(ctx, doc)
		if err != nil {
			log.Printf("   ❌ %v", err)
			failCount++
			continue
		}
		log.Printf("   ✅ Stored as %s", key)

		profile, err := cvService.ExtractProfile(ctx, key)
		if err != nil {
			log.Printf("   ❌ %v", err)
			failCount++
			continue
		}

		out, _ := json.MarshalIndent(profile, "   ", "  ")
		log.Printf("   ✅ Profile:\n   %s", out)
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Extraction Summary:")
	log.Printf("   ✅ Successful: %d files", successCount)
	log.Printf("   ❌ Failed: %d files", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		os.Exit(1)
	}
}
