package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"contextAgent/internal/cli/ui"
	"contextAgent/internal/contract"
	"contextAgent/internal/llm"
	"contextAgent/internal/message"
	"contextAgent/internal/pipeline"
	"contextAgent/internal/retrieval"

	"go.uber.org/zap"
)

var ErrNoLLM = errors.New("LLM клиент не инициализирован (нужен OPENAI_API_KEY)")

const offlineContractSample = `{"answer":"Context engineering is the deliberate design of what information goes into and stays in a model's context.","assumptions":[],"sources_used":[]}`

// LLMHandler обрабатывает команды, которые обращаются к модели
type LLMHandler struct {
	gen       llm.Generator
	assembler *pipeline.Assembler
	out       io.Writer
	log       *zap.Logger
}

func NewLLMHandler(gen llm.Generator, assembler *pipeline.Assembler, out io.Writer, log *zap.Logger) *LLMHandler {
	return &LLMHandler{
		gen:       gen,
		assembler: assembler,
		out:       out,
		log:       log,
	}
}

// Smoke проверяет доступность модели одним коротким запросом
func (h *LLMHandler) Smoke(ctx context.Context) error {
	if h.gen == nil {
		ui.Error(h.out, ErrNoLLM.Error(), nil)
		return ErrNoLLM
	}

	fmt.Fprintln(h.out, ui.ColorCyan+ui.IconRobot+" Запрос к OpenAI..."+ui.ColorReset)
	res, err := h.gen.Generate(ctx, "Reply with exactly one token: OK", "Return OK")
	if err != nil {
		h.log.Error("Smoke-запрос не выполнен", zap.Error(err))
		ui.Error(h.out, "Ошибка", err)
		return err
	}

	ui.Success(h.out, "Ответ получен")
	fmt.Fprintln(h.out, res.Text)
	return nil
}

// Contract запрашивает ответ в формате контракта и проверяет его.
// Без ключа используется заранее подготовленный ответ.
func (h *LLMHandler) Contract(ctx context.Context, prompt string) error {
	gen := h.gen
	if gen == nil {
		fmt.Fprintln(h.out, ui.ColorGray+"OPENAI_API_KEY не задан, используется офлайн-ответ"+ui.ColorReset)
		gen = llm.Static(offlineContractSample)
	}

	res, err := gen.Generate(ctx, contract.Instructions(), prompt)
	if err != nil {
		ui.Error(h.out, "Ошибка", err)
		return err
	}

	ui.Section(h.out, "RAW MODEL OUTPUT")
	fmt.Fprintln(h.out, res.Text)

	parsed, err := contract.Validate(res.Text)
	if err != nil {
		ui.Error(h.out, "CONTRACT VALIDATION FAILED", err)
		return err
	}

	ui.Success(h.out, "CONTRACT VALIDATION PASSED")
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(h.out, string(pretty))
	return nil
}

// Ask собирает контекст из сообщений и фрагментов и задаёт вопрос модели
func (h *LLMHandler) Ask(ctx context.Context, question, messagesFile, chunksFile string) error {
	if h.gen == nil {
		ui.Error(h.out, ErrNoLLM.Error(), nil)
		return ErrNoLLM
	}

	var req pipeline.Request
	if messagesFile != "" {
		if err := loadJSON(messagesFile, &req.Messages); err != nil {
			ui.Error(h.out, "Не удалось загрузить сообщения", err)
			return err
		}
	}
	req.Messages = append(req.Messages, message.User(question))

	if chunksFile != "" {
		var chunks []retrieval.Chunk
		if err := loadJSON(chunksFile, &chunks); err != nil {
			ui.Error(h.out, "Не удалось загрузить фрагменты", err)
			return err
		}
		req.Chunks = chunks
	}

	ans, err := h.assembler.Ask(ctx, h.gen, req)
	if ans != nil && ans.Context.HadInjection {
		note := " Во фрагментах найдены инструкции"
		if ans.Context.Sanitized {
			note += ", опасные строки удалены"
		}
		fmt.Fprintln(h.out, ui.ColorYellow+ui.IconShield+note+ui.ColorReset)
		printFindings(h.out, ans.Context.Findings)
	}
	if err != nil {
		ui.Error(h.out, "Ошибка", err)
		if ans != nil {
			fmt.Fprintln(h.out, ans.Raw)
		}
		return err
	}

	fmt.Fprintf(h.out, ui.ColorGray+"Контекст: %d символов, отброшено сообщений: %d"+ui.ColorReset+"\n",
		ans.Context.Pack.FinalChars, len(ans.Context.Pack.Dropped))
	fmt.Fprintln(h.out, ui.ColorCyan+"Ответ:"+ui.ColorReset+" "+ans.Response.Answer)
	for _, a := range ans.Response.Assumptions {
		fmt.Fprintln(h.out, "  "+ui.ColorGray+"допущение:"+ui.ColorReset+" "+a)
	}
	for _, s := range ans.Response.SourcesUsed {
		fmt.Fprintln(h.out, "  "+ui.ColorGray+"источник:"+ui.ColorReset+" "+s)
	}
	return nil
}
