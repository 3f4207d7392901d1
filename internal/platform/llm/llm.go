// Package llm wraps the Gemini chat model behind the structured-extractor
// capability consumed by the detail extractor.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	gemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"jobscout/internal/logger"
	"jobscout/prompts"
)

// Config holds provider settings for the extraction model.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Service invokes the LLM with the fixed job-extraction contract and returns
// its raw text response. The response carries no schema guarantee; callers
// must validate defensively.
type Service struct {
	log       *logger.Logger
	config    Config
	chatModel model.BaseChatModel
}

// NewService initializes the Gemini client and chat model.
func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	chatModel, err := gemini.NewChatModel(context.Background(), &gemini.Config{
		Client: client,
		Model:  cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini chat model: %w", err)
	}

	return &Service{log: logger.New("LLM"), config: cfg, chatModel: chatModel}, nil
}

// NewServiceWithModel wires a pre-built chat model. Used by tests.
func NewServiceWithModel(cfg Config, chatModel model.BaseChatModel) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Service{log: logger.New("LLM"), config: cfg, chatModel: chatModel}
}

// ExtractJob sends the bounded page text through the extraction contract and
// returns the model's raw response. The call carries its own timeout,
// independent of any page-fetch deadline.
func (s *Service) ExtractJob(ctx context.Context, pageText, sourceURL string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	messages := prompts.JobExtractionMessages(sourceURL, pageText)

	start := time.Now()
	response, err := s.chatModel.Generate(callCtx, messages)
	if err != nil {
		return "", fmt.Errorf("llm generation failed: %w", err)
	}
	s.log.LogDebugf("extraction call for %s took %v", sourceURL, time.Since(start))

	content := strings.TrimSpace(response.Content)
	if content == "" {
		return "", fmt.Errorf("llm returned empty content")
	}
	return content, nil
}
