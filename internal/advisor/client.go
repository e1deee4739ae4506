package advisor

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/certprep/backend/internal/models"
)

// LLMClient is the interface both client implementations satisfy.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// Advisor turns engine output into a short natural-language study
// briefing via a hosted model.
type Advisor struct {
	llm   LLMClient
	model string
}

func NewAdvisor() *Advisor {
	var llm LLMClient
	model := "mock"

	if os.Getenv("MOCK_ADVISOR") == "true" || os.Getenv("ANTHROPIC_API_KEY") == "" {
		llm = NewMockClient()
		log.Println("Advisor using mock briefings")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-5-20250929"
		}
		llm = NewAPIClient(model)
		log.Println("Advisor using Anthropic API:", model)
	}

	return &Advisor{llm: llm, model: model}
}

func (a *Advisor) ModelName() string {
	return a.model
}

func (a *Advisor) StudyBriefing(ctx context.Context, path models.StudyPath, weak []models.WeakCategory) (string, error) {
	briefing, err := a.llm.Complete(ctx, briefingSystemPrompt(), buildBriefingPrompt(path, weak))
	if err != nil {
		return "", fmt.Errorf("generate briefing: %w", err)
	}
	return briefing, nil
}

// ── APIClient — Anthropic SDK ───────────────────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   1024,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in API response")
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	return "[Mock] Your study plan is ready. Work through the phases in order, " +
		"spending extra time on your flagged weak areas before moving up a difficulty level.", nil
}
