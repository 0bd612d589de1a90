// Package llm - граница с языковой моделью: инструкции и собранный контекст на входе, текст на выходе.
// Включает клиент OpenAI с ограничением частоты, журналирование запросов и офлайн-заглушку для тестов.
package llm

import "context"

// Generator - то, что нужно остальному коду от модели.
type Generator interface {
	// Generate отправляет инструкции и входной текст, возвращает сгенерированный текст.
	// Ошибки сети и авторизации возвращаются как *Error.
	Generate(ctx context.Context, instructions, inputText string) (*Result, error)
}

// Result - ответ модели. Raw - исходный ответ SDK, его формат не гарантируется.
type Result struct {
	Text string
	Raw  any
}

// PromptLogger сохраняет запросы к модели (например, в базу).
type PromptLogger interface {
	LogLLMRequest(ctx context.Context, instructions, inputText, responseText, model string, tokensUsed int) error
}
