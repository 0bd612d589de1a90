// Package sanitizer маскирует секреты в тексте перед тем, как он попадет в контекст или в лог.
// Правила - данные: упорядоченный список (метка, шаблон), новые правила добавляются без изменения логики.
package sanitizer

import "regexp"

// SanitizerRule - одно правило маскирования.
type SanitizerRule interface {
	Sanitize(text string) string
}

// PatternRule заменяет каждое совпадение шаблона на <LABEL_REDACTED>.
type PatternRule struct {
	Label   string
	Pattern *regexp.Regexp
}

func NewPatternRule(label, pattern string) *PatternRule {
	return &PatternRule{Label: label, Pattern: regexp.MustCompile(pattern)}
}

// Placeholder возвращает текст, которым заменяются совпадения.
func (r *PatternRule) Placeholder() string {
	return "<" + r.Label + "_REDACTED>"
}

func (r *PatternRule) Sanitize(text string) string {
	return r.Pattern.ReplaceAllLiteralString(text, r.Placeholder())
}

type DataSanitizer struct {
	rules []SanitizerRule
}

// New возвращает базовый набор правил для контекста: ключи OpenAI и пары вида token=... .
func New() *DataSanitizer {
	return &DataSanitizer{
		rules: []SanitizerRule{
			OpenAIKeyRule,
			GenericTokenRule,
		},
	}
}

// NewStrict дополняет базовый набор правилами для персональных данных.
// Используется перед сохранением промптов в базу.
func NewStrict() *DataSanitizer {
	s := New()
	s.rules = append(s.rules,
		BearerTokenRule,
		EmailRule,
		CardNumberRule,
	)
	return s
}

// WithRules возвращает копию с дополнительными правилами в конце списка.
func (s *DataSanitizer) WithRules(rules ...SanitizerRule) *DataSanitizer {
	out := &DataSanitizer{rules: make([]SanitizerRule, 0, len(s.rules)+len(rules))}
	out.rules = append(out.rules, s.rules...)
	out.rules = append(out.rules, rules...)
	return out
}

// Sanitize применяет правила по порядку, каждое - ко всему тексту.
func (s *DataSanitizer) Sanitize(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, rule := range s.rules {
		result = rule.Sanitize(result)
	}

	return result
}

var defaultSanitizer = New()

// Redact маскирует секреты базовым набором правил.
func Redact(text string) string {
	return defaultSanitizer.Sanitize(text)
}
