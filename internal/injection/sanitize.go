package injection

import (
	"regexp"
	"strings"
)

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

var highRiskLine = regexp.MustCompile(`(?i)(ignore|disregard|override|system prompt|developer message|api\s*key|password|secret|token)`)

// Sanitize удаляет строки с опасными фразами целиком. Остальные строки и их порядок сохраняются.
// Разделители строк: \n, \r\n и одиночный \r.
func Sanitize(text string) string {
	lines := strings.Split(newlines.Replace(text), "\n")

	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if highRiskLine.MatchString(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
