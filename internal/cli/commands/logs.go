package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"contextAgent/internal/budget"
	"contextAgent/internal/cli/ui"
	"contextAgent/internal/database"

	"go.uber.org/zap"
)

var ErrNoDatabase = errors.New("БД не настроена (нужен DB_HOST)")

// PromptLogLister - источник журнала запросов
type PromptLogLister interface {
	ListRecent(ctx context.Context, limit int) ([]database.PromptLog, error)
}

// LogsHandler обрабатывает команды просмотра журнала запросов к LLM
type LogsHandler struct {
	repo PromptLogLister
	out  io.Writer
	log  *zap.Logger
}

func NewLogsHandler(repo PromptLogLister, out io.Writer, log *zap.Logger) *LogsHandler {
	return &LogsHandler{
		repo: repo,
		out:  out,
		log:  log,
	}
}

// Show выводит последние limit запросов
func (h *LogsHandler) Show(ctx context.Context, limit int) error {
	if h.repo == nil {
		ui.Error(h.out, ErrNoDatabase.Error(), nil)
		return ErrNoDatabase
	}

	logs, err := h.repo.ListRecent(ctx, limit)
	if err != nil {
		h.log.Error("Ошибка получения журнала", zap.Error(err))
		ui.Error(h.out, "Ошибка получения журнала", err)
		return err
	}

	fmt.Fprintf(h.out, "\n"+ui.ColorBold+"=== "+ui.IconList+" Последние запросы (%d) ==="+ui.ColorReset+"\n", len(logs))
	if len(logs) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"Записей нет"+ui.ColorReset)
		return nil
	}

	for _, l := range logs {
		fmt.Fprintf(h.out, ui.ColorGray+"[%s]"+ui.ColorReset+" #%d "+ui.ColorCyan+"%s"+ui.ColorReset+" вход=%d симв. токены=%d\n",
			l.CreatedAt.Format("2006-01-02 15:04:05"), l.ID, l.Model, l.InputChars, l.TokensUsed)
		fmt.Fprintf(h.out, "  "+ui.ColorGray+"%s"+ui.ColorReset+"\n", oneLine(l.InputText, 80))
		if l.ResponseText != "" {
			fmt.Fprintf(h.out, "  "+ui.ColorGreen+"→"+ui.ColorReset+" %s\n", oneLine(l.ResponseText, 80))
		}
	}
	fmt.Fprintln(h.out)
	return nil
}

func oneLine(s string, n int) string {
	flat := []rune(s)
	for i, r := range flat {
		if r == '\n' || r == '\r' || r == '\t' {
			flat[i] = ' '
		}
	}
	out := string(flat)
	if budget.Len(out) > n {
		return budget.Head(out, n) + budget.Ellipsis
	}
	return out
}
