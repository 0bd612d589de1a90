// Package database хранит журнал запросов к LLM в PostgreSQL.
// Использует GORM с prepared statements; тексты попадают сюда уже замаскированными.
package database

import "time"

// PromptLog - один запрос к модели.
type PromptLog struct {
	ID           uint      `gorm:"primaryKey"`
	Instructions string    `gorm:"type:text;not null"` // Инструкции (system)
	InputText    string    `gorm:"type:text;not null"` // Собранный контекст
	ResponseText string    `gorm:"type:text"`          // Ответ модели
	Model        string    `gorm:"type:varchar(64)"`
	InputChars   int       `gorm:"not null"`           // Размер контекста в символах
	TokensUsed   int       // Количество токенов по данным API
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
