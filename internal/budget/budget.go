// Package budget содержит описание лимита контекста и подсчет его стоимости.
// Единица стоимости - символ (Unicode code point), а не байт и не токен.
package budget

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"contextAgent/internal/message"
)

// Ellipsis помечает место, где текст был обрезан.
const Ellipsis = "…"

// Budget задает максимальное количество символов в собранном контексте.
// Значение только для чтения и может переиспользоваться между вызовами.
type Budget struct {
	MaxChars int
}

// Len возвращает длину текста в символах.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// SizeChars считает стоимость набора сообщений: сумму длин содержимого.
// Роль и метаданные не учитываются.
func SizeChars(messages []message.Message) int {
	total := 0
	for _, m := range messages {
		total += Len(m.Content)
	}
	return total
}

// Head возвращает первые n символов строки.
func Head(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Clip обрезает текст до maxChars-1 символов, убирает хвостовые пробелы и добавляет многоточие.
// Результат никогда не длиннее maxChars; при maxChars <= 0 возвращается пустая строка.
func Clip(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	return strings.TrimRightFunc(Head(s, maxChars-1), unicode.IsSpace) + Ellipsis
}
