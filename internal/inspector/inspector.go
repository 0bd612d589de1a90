// Package inspector показывает, что именно уйдёт в модель: роли, размеры и начало каждого сообщения.
package inspector

import (
	"fmt"
	"strconv"

	"contextAgent/internal/budget"
	"contextAgent/internal/message"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const previewChars = 160

type Stats struct {
	Messages int
	Chars    int
}

func ComputeStats(messages []message.Message) Stats {
	return Stats{
		Messages: len(messages),
		Chars:    budget.SizeChars(messages),
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)
)

// Preview - первые 160 символов содержимого с многоточием, если текст длиннее.
func Preview(content string) string {
	if budget.Len(content) > previewChars {
		return budget.Head(content, previewChars) + budget.Ellipsis
	}
	return content
}

// Render строит таблицу сообщений и строку итогов.
func Render(messages []message.Message) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "role", "chars", "content").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || col == 2:
				return numStyle
			default:
				return cellStyle
			}
		})

	for i, m := range messages {
		t.Row(strconv.Itoa(i), string(m.Role), strconv.Itoa(budget.Len(m.Content)), Preview(m.Content))
	}

	stats := ComputeStats(messages)
	return titleStyle.Render("Context Inspector") + "\n" +
		t.Render() + "\n\n" +
		fmt.Sprintf("Messages: %d | Characters: %d", stats.Messages, stats.Chars)
}
