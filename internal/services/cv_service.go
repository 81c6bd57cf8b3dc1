package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
)

// CVService runs the upload and structured extraction pipelines. Stages run
// strictly in sequence and nothing is retried.
type CVService interface {
	ValidateAndStore(ctx context.Context, doc *models.UploadedDocument) (string, error)
	ExtractProfile(ctx context.Context, key string) (*models.ExtractedProfile, error)
}

type cvService struct {
	validator     FileValidator
	storage       StorageService
	extractor     TextExtractor
	completion    CompletionService
	promptBuilder *PromptBuilder
}

func NewCVService(
	validator FileValidator,
	storage StorageService,
	extractor TextExtractor,
	completion CompletionService,
) CVService {
	return &cvService{
		validator:     validator,
		storage:       storage,
		extractor:     extractor,
		completion:    completion,
		promptBuilder: NewPromptBuilder(),
	}
}

// ValidateAndStore returns the storage key of a valid document. Storage is
// never touched when validation fails.
func (s *cvService) ValidateAndStore(ctx context.Context, doc *models.UploadedDocument) (string, error) {
	if err := s.validator.Validate(doc); err != nil {
		log.Printf("⚠️  Rejected upload %q: %v", safeFilename(doc), err)
		return "", err
	}

	key, err := s.storage.Put(ctx, doc, "")
	if err != nil {
		log.Printf("❌ Failed to store %q: %v", doc.OriginalFilename, err)
		return "", err
	}

	log.Printf("💾 Stored %q as %s (%d bytes)", doc.OriginalFilename, key, len(doc.Buffer))
	return key, nil
}

// ExtractProfile fetches the stored CV, extracts its text and asks the
// completion service for the nine-field profile.
func (s *cvService) ExtractProfile(ctx context.Context, key string) (*models.ExtractedProfile, error) {
	if strings.TrimSpace(key) == "" {
		return nil, NewProcessingError("A file id is required", nil).WithDetail("fields", []string{"fileId: required"})
	}

	data, err := s.storage.Get(ctx, key, "")
	if err != nil {
		return nil, err
	}

	log.Printf("📄 Extracting text from %s", key)
	cvText, err := s.extractor.Extract(data)
	if err != nil {
		return nil, err
	}

	log.Printf("🤖 Requesting profile extraction from %s", s.completion.Provider())
	raw, err := s.completion.Complete(ctx,
		s.promptBuilder.BuildCVExtractionSystemPrompt(),
		s.promptBuilder.BuildCVExtractionPrompt(cvText),
		WithTemperature(0),
		WithJSONResponse(),
	)
	if err != nil {
		return nil, completionError(s.completion.Provider(), err)
	}

	if _, err := ParseStrict[json.RawMessage](raw, s.completion.Provider()); err != nil {
		log.Printf("❌ %v", err)
		return nil, err
	}

	if err := ValidateProfileJSON(raw, s.completion.Provider()); err != nil {
		log.Printf("❌ %v", err)
		return nil, err
	}

	profile, err := DecodeProfile(raw, s.completion.Provider())
	if err != nil {
		log.Printf("❌ %v", err)
		return nil, err
	}

	log.Printf("✅ Extracted profile for %s", key)
	return profile, nil
}

// completionError classifies a failed completion call. Deadline errors stay
// timeouts, everything else is a processing failure.
func completionError(provider string, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if isTimeout(err) {
		return NewError(CodeNetworkTimeout, fmt.Sprintf("%s did not respond in time", provider), err)
	}

	return NewProcessingError(fmt.Sprintf("Failed to get a response from %s", provider), err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func safeFilename(doc *models.UploadedDocument) string {
	if doc == nil {
		return ""
	}
	return doc.OriginalFilename
}
