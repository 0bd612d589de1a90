// Package message описывает сообщения контекста, которые собираются перед запросом к LLM.
// Сообщения неизменяемы: любые преобразования возвращают новое значение.
package message

import "maps"

// Role определяет роль автора сообщения.
type Role string

const (
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Valid проверяет, что роль входит в поддерживаемый набор.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleDeveloper, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// Message представляет одно сообщение контекста.
// Порядок сообщений в срезе задает хронологию.
type Message struct {
	Role    Role           `json:"role"`
	Content string         `json:"content"`
	Name    string         `json:"name,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func New(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

func System(content string) Message    { return New(RoleSystem, content) }
func Developer(content string) Message { return New(RoleDeveloper, content) }
func User(content string) Message      { return New(RoleUser, content) }
func Assistant(content string) Message { return New(RoleAssistant, content) }
func Tool(content string) Message      { return New(RoleTool, content) }

// WithContent возвращает копию сообщения с новым текстом.
// Метаданные копируются, исходная карта не разделяется с результатом.
func (m Message) WithContent(content string) Message {
	out := m
	out.Content = content
	out.Meta = maps.Clone(m.Meta)
	return out
}

// WithMeta возвращает копию сообщения, в метаданные которой добавлены ключи extra.
// Ключи extra перекрывают существующие.
func (m Message) WithMeta(extra map[string]any) Message {
	out := m
	meta := make(map[string]any, len(m.Meta)+len(extra))
	maps.Copy(meta, m.Meta)
	maps.Copy(meta, extra)
	out.Meta = meta
	return out
}
