package llm

import "context"

// Fake - детерминированная офлайн-модель: возвращает входной текст с префиксом.
type Fake struct{}

func (Fake) Generate(ctx context.Context, instructions, inputText string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{Text: "FAKE_MODEL_RESPONSE: " + inputText}, nil
}

// Static всегда возвращает один и тот же текст. Удобно для демонстрации контракта без ключа.
type Static string

func (s Static) Generate(ctx context.Context, instructions, inputText string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{Text: string(s)}, nil
}
