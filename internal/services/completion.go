package services

import "context"

// CompletionOption adjusts one Complete call.
type CompletionOption func(*GenerationOptions)

// WithTemperature pins the sampling temperature. Use 0 for deterministic output.
func WithTemperature(t float32) CompletionOption {
	return func(o *GenerationOptions) {
		o.Temperature = &t
	}
}

// WithJSONResponse asks the service for a JSON document.
func WithJSONResponse() CompletionOption {
	return func(o *GenerationOptions) {
		o.JSONResponse = true
	}
}

type CompletionService interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts ...CompletionOption) (string, error)
	Provider() string
}

type completionService struct {
	model ChatModel
}

func NewCompletionService(model ChatModel) CompletionService {
	return &completionService{model: model}
}

// Complete sends exactly one system and one user message and returns the raw
// response. Service failures are returned as they are.
func (c *completionService) Complete(ctx context.Context, systemPrompt, userPrompt string, opts ...CompletionOption) (string, error) {
	var options GenerationOptions
	for _, opt := range opts {
		opt(&options)
	}

	messages := []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: userPrompt},
	}

	return c.model.Generate(ctx, messages, options)
}

func (c *completionService) Provider() string {
	return c.model.Name()
}
