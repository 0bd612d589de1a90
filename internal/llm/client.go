package llm

import (
	"context"

	"contextAgent/internal/budget"
	"contextAgent/internal/config"
	"contextAgent/internal/sanitizer"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type Client struct {
	client           *openai.Client
	model            string
	safetyIdentifier string
	logger           PromptLogger
	log              *zap.Logger
	sanitizer        *sanitizer.DataSanitizer
	rateLimiter      *RateLimiter
}

func NewClient(cfg config.OpenAI, logger PromptLogger, log *zap.Logger) *Client {
	return NewClientWithRateLimit(cfg, logger, log, 60, 360000)
}

func NewClientWithRateLimit(cfg config.OpenAI, logger PromptLogger, log *zap.Logger, requestsPerMinute, charsPerHour int) *Client {
	oc := openai.DefaultConfig(cfg.KeyAI)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		client:           openai.NewClientWithConfig(oc),
		model:            cfg.Model,
		safetyIdentifier: cfg.SafetyIdentifier,
		logger:           logger,
		log:              log,
		sanitizer:        sanitizer.NewStrict(),
		rateLimiter:      NewRateLimiter(requestsPerMinute, charsPerHour),
	}
}

func (c *Client) Model() string {
	return c.model
}

// Generate выполняет chat completion: инструкции уходят системным сообщением, контекст - пользовательским.
func (c *Client) Generate(ctx context.Context, instructions, inputText string) (*Result, error) {
	if err := c.rateLimiter.Allow(ctx, budget.Len(instructions)+budget.Len(inputText)); err != nil {
		return nil, err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: instructions,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: inputText,
			},
		},
		User: c.safetyIdentifier,
	})
	if err != nil {
		llmErr := classifyError(err)
		c.log.Warn("Ошибка запроса к OpenAI",
			zap.String("model", c.model),
			zap.Stringer("type", llmErr.Type),
			zap.Error(err),
		)
		return nil, llmErr
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	text := resp.Choices[0].Message.Content

	c.log.Debug("Ответ OpenAI получен",
		zap.String("model", c.model),
		zap.Int("tokens", resp.Usage.TotalTokens),
		zap.Int("response_chars", budget.Len(text)),
	)

	if c.logger != nil {
		if err := c.logger.LogLLMRequest(ctx,
			c.sanitizer.Sanitize(instructions),
			c.sanitizer.Sanitize(inputText),
			c.sanitizer.Sanitize(text),
			c.model,
			resp.Usage.TotalTokens,
		); err != nil {
			c.log.Warn("Не удалось сохранить лог запроса", zap.Error(err))
		}
	}

	return &Result{Text: text, Raw: resp}, nil
}
