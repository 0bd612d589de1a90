// Package injection ищет во внешнем тексте (retrieval, вывод инструментов) фразы,
// похожие на попытку переопределить инструкции. Это эвристика, а не защита.
package injection

import (
	"regexp"
	"strings"

	"contextAgent/internal/budget"
)

// snippetTail - сколько символов после совпадения попадает во фрагмент.
const snippetTail = 40

// Finding - одно срабатывание эвристики.
type Finding struct {
	Kind    string `json:"kind"`
	Snippet string `json:"snippet"`
}

// Rule - именованный шаблон.
type Rule struct {
	Kind    string
	Pattern *regexp.Regexp
}

// Rules проверяются по порядку; каждое правило дает не больше одного срабатывания.
var Rules = []Rule{
	{
		Kind:    "override-instructions",
		Pattern: regexp.MustCompile(`(?is)\b(ignore|disregard|override)\b.{0,80}\b(instruction|system|developer|previous)\b`),
	},
	{
		Kind:    "roleplay-system",
		Pattern: regexp.MustCompile(`(?is)\byou are (now|no longer)\b.{0,60}\b(system|developer)\b`),
	},
	{
		Kind:    "exfiltrate-secrets",
		Pattern: regexp.MustCompile(`(?i)\b(api\s*key|secret|password|token)\b`),
	},
	{
		Kind:    "tool-abuse",
		Pattern: regexp.MustCompile(`(?is)\b(call|use|invoke)\b.{0,40}\b(tool|function)\b`),
	},
}

// Scan возвращает срабатывания в порядке правил.
func Scan(text string) []Finding {
	var findings []Finding
	for _, rule := range Rules {
		loc := rule.Pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		snippet := text[loc[0]:loc[1]] + budget.Head(text[loc[1]:], snippetTail)
		findings = append(findings, Finding{
			Kind:    rule.Kind,
			Snippet: strings.TrimSpace(snippet),
		})
	}
	return findings
}

// Detected сообщает, сработало ли хотя бы одно правило.
func Detected(text string) bool {
	for _, rule := range Rules {
		if rule.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}
