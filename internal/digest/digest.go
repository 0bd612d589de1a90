// Package digest выполняет детерминированное сжатие текста до лимита символов.
// Предпочтение отдается началу текста и структурным строкам: заголовкам и пунктам списков.
package digest

import (
	"regexp"
	"strings"
	"unicode"

	"contextAgent/internal/budget"
	"contextAgent/internal/message"
)

// openingLines - сколько первых непустых строк сохраняется всегда.
const openingLines = 6

// MetaKey - ключ метаданных сообщения со статистикой сжатия.
const MetaKey = "digest"

var (
	headingPattern = regexp.MustCompile(`^\s{0,3}#{1,6}\s+.+`)
	bulletPattern  = regexp.MustCompile(`^\s{0,8}([-*]|\d+\.)\s+.+`)
)

// Result описывает результат сжатия.
type Result struct {
	Text          string
	OriginalChars int
	DigestChars   int
}

// Text сжимает текст до maxChars символов.
//
// Сохраняются первые шесть непустых строк и все заголовки и пункты списков (без повторов).
// Если что-то было отброшено, в конец добавляется многоточие; если текст все еще не влезает,
// он обрезается жестко. При maxChars <= 0 результат пустой.
func Text(text string, maxChars int) Result {
	original := budget.Len(text)

	lines := splitLines(text)
	keep := make([]string, 0, openingLines)
	seen := make(map[string]bool)

	for _, ln := range lines {
		if len(keep) == openingLines {
			break
		}
		if strings.TrimSpace(ln) != "" {
			keep = append(keep, ln)
			seen[ln] = true
		}
	}

	for _, ln := range lines {
		if seen[ln] {
			continue
		}
		if headingPattern.MatchString(ln) || bulletPattern.MatchString(ln) {
			keep = append(keep, ln)
			seen[ln] = true
		}
	}

	out := strings.TrimSpace(strings.Join(keep, "\n"))

	if original > budget.Len(out) && maxChars > 0 {
		switch {
		case budget.Len(out) >= maxChars:
			out = budget.Clip(out, maxChars)
		case !strings.HasSuffix(out, budget.Ellipsis):
			if budget.Len(out)+1 <= maxChars {
				out += budget.Ellipsis
			} else {
				out = budget.Clip(out, maxChars)
			}
		}
	}

	if maxChars <= 0 {
		out = ""
	} else if budget.Len(out) > maxChars {
		out = budget.Clip(out, maxChars)
	}

	return Result{
		Text:          out,
		OriginalChars: original,
		DigestChars:   budget.Len(out),
	}
}

// Messages сжимает содержимое каждого сообщения и возвращает новые сообщения.
// Исходный срез и метаданные не изменяются.
func Messages(messages []message.Message, maxCharsPerMessage int) []message.Message {
	out := make([]message.Message, 0, len(messages))
	for _, m := range messages {
		d := Text(m.Content, maxCharsPerMessage)
		out = append(out, m.WithContent(d.Text).WithMeta(map[string]any{
			MetaKey: map[string]int{
				"original_chars": d.OriginalChars,
				"digest_chars":   d.DigestChars,
			},
		}))
	}
	return out
}

// splitLines режет текст на строки по \n, \r\n и \r и убирает хвостовые пробелы.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, ln := range raw {
		lines[i] = strings.TrimRightFunc(ln, unicode.IsSpace)
	}
	return lines
}
