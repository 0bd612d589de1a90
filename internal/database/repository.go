package database

import (
	"context"

	"contextAgent/internal/budget"

	"gorm.io/gorm"
)

type PromptLogRepository struct {
	db *gorm.DB
}

func NewPromptLogRepository(db *gorm.DB) *PromptLogRepository {
	return &PromptLogRepository{db: db}
}

// LogLLMRequest реализует llm.PromptLogger.
func (r *PromptLogRepository) LogLLMRequest(ctx context.Context, instructions, inputText, responseText, model string, tokensUsed int) error {
	return r.db.WithContext(ctx).Create(&PromptLog{
		Instructions: instructions,
		InputText:    inputText,
		ResponseText: responseText,
		Model:        model,
		InputChars:   budget.Len(inputText),
		TokensUsed:   tokensUsed,
	}).Error
}

func (r *PromptLogRepository) ListRecent(ctx context.Context, limit int) ([]PromptLog, error) {
	var logs []PromptLog
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *PromptLogRepository) GetByID(ctx context.Context, id uint) (*PromptLog, error) {
	var l PromptLog
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}
