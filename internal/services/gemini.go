package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"google.golang.org/genai"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role
	Content string
}

// GenerationOptions tunes a single completion call. A nil Temperature leaves
// the service default in place.
type GenerationOptions struct {
	Temperature  *float32
	JSONResponse bool
}

// ChatModel is the external completion service seen as a black box.
type ChatModel interface {
	Name() string
	Generate(ctx context.Context, messages []Message, opts GenerationOptions) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
}

// NewGeminiService creates the Gemini chat model. The HTTP client timeout is
// the only timeout applied to completion calls.
func NewGeminiService(apiKey, modelName string, timeout time.Duration) (ChatModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
	}, nil
}

func (g *geminiService) Name() string {
	return "Gemini"
}

// Generate implements ChatModel. System messages become the system
// instruction, user messages the request contents, in order.
func (g *geminiService) Generate(ctx context.Context, messages []Message, opts GenerationOptions) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: opts.Temperature,
	}
	if opts.JSONResponse {
		config.ResponseMIMEType = "application/json"
	}

	var contents []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			config.SystemInstruction = genai.NewContentFromText(msg.Content, genai.RoleUser)
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	return resp.Text(), nil
}
