package services

import (
	"context"
	"log"
	"strings"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
)

type EmailService interface {
	GenerateEmail(ctx context.Context, form *models.CandidateForm) (*models.EmailResponse, error)
}

type emailService struct {
	storage       StorageService
	extractor     TextExtractor
	completion    CompletionService
	promptBuilder *PromptBuilder
	currency      string
}

func NewEmailService(
	storage StorageService,
	extractor TextExtractor,
	completion CompletionService,
	currency string,
) EmailService {
	return &emailService{
		storage:       storage,
		extractor:     extractor,
		completion:    completion,
		promptBuilder: NewPromptBuilder(),
		currency:      currency,
	}
}

// GenerateEmail validates the form, resolves the job description, derives the
// display fields and returns the composed plain-text email.
func (s *emailService) GenerateEmail(ctx context.Context, form *models.CandidateForm) (*models.EmailResponse, error) {
	if form == nil {
		return nil, NewProcessingError("Candidate form is required", nil)
	}

	if err := form.Validate(); err != nil {
		return nil, NewProcessingError("Candidate form is invalid", err).
			WithDetail("fields", models.FieldErrors(err))
	}

	jobDescription, err := s.resolveJobDescription(ctx, form)
	if err != nil {
		return nil, err
	}

	derived := DeriveFields(form, s.currency)

	userPrompt, err := s.promptBuilder.BuildEmailPrompt(form, derived, jobDescription)
	if err != nil {
		return nil, NewProcessingError("Failed to build email prompt", err)
	}

	log.Printf("🤖 Generating email for %s (%s) with %s", derived.FirstName, derived.Seniority, s.completion.Provider())
	raw, err := s.completion.Complete(ctx, s.promptBuilder.BuildEmailSystemPrompt(), userPrompt)
	if err != nil {
		return nil, completionError(s.completion.Provider(), err)
	}

	email := strings.TrimSpace(raw)
	if email == "" {
		return nil, NewProcessingError(s.completion.Provider()+" returned an empty email", nil)
	}

	log.Printf("✅ Email generated for %s", derived.FirstName)
	return &models.EmailResponse{Email: email}, nil
}

// resolveJobDescription returns the inline text, or the extracted text of a
// previously stored job description file.
func (s *emailService) resolveJobDescription(ctx context.Context, form *models.CandidateForm) (string, error) {
	if form.JobDescriptionText != "" {
		return strings.TrimSpace(form.JobDescriptionText), nil
	}

	data, err := s.storage.Get(ctx, form.JobDescriptionFile, "")
	if err != nil {
		return "", err
	}

	log.Printf("📄 Extracting job description from %s", form.JobDescriptionFile)
	return s.extractor.Extract(data)
}
