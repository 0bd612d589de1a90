package commands

import (
	"fmt"
	"io"

	"contextAgent/internal/budget"
	"contextAgent/internal/cli/ui"
	"contextAgent/internal/config"
	"contextAgent/internal/digest"
	"contextAgent/internal/injection"
	"contextAgent/internal/inspector"
	"contextAgent/internal/message"
	"contextAgent/internal/packer"
	"contextAgent/internal/retrieval"
	"contextAgent/internal/toollog"
)

// ContextHandler обрабатывает офлайн-команды сборки контекста
type ContextHandler struct {
	cfg config.Context
	out io.Writer
}

func NewContextHandler(cfg config.Context, out io.Writer) *ContextHandler {
	return &ContextHandler{
		cfg: cfg,
		out: out,
	}
}

// Inspect печатает таблицу сообщений
func (h *ContextHandler) Inspect(file string) error {
	msgs, err := messagesOrDemo(file, DemoInspectMessages)
	if err != nil {
		ui.Error(h.out, "Не удалось загрузить сообщения", err)
		return err
	}
	fmt.Fprintln(h.out, inspector.Render(msgs))
	return nil
}

// Pack сравнивает политики упаковки. Пустой policy - обе политики.
func (h *ContextHandler) Pack(file, policy string, maxChars, mult int) error {
	msgs, err := messagesOrDemo(file, func() []message.Message { return DemoPackMessages(mult) })
	if err != nil {
		ui.Error(h.out, "Не удалось загрузить сообщения", err)
		return err
	}

	policies := []packer.Policy{packer.PolicyRecency, packer.PolicyPriority}
	if policy != "" {
		p, err := packer.ParsePolicy(policy)
		if err != nil {
			ui.Error(h.out, "Неверная политика", err)
			return err
		}
		policies = []packer.Policy{p}
	}

	b := budget.Budget{MaxChars: maxChars}

	ui.Section(h.out, "ORIGINAL")
	fmt.Fprintln(h.out, inspector.Render(msgs))

	for _, p := range policies {
		h.printPack(string(p)+"-first", p.Pack(msgs, b), b)
	}
	return nil
}

// Digest показывает упаковку до и после сжатия сообщений
func (h *ContextHandler) Digest(file string, maxChars, perMessage int) error {
	msgs, err := messagesOrDemo(file, DemoDigestMessages)
	if err != nil {
		ui.Error(h.out, "Не удалось загрузить сообщения", err)
		return err
	}

	b := budget.Budget{MaxChars: maxChars}

	ui.Section(h.out, "ORIGINAL")
	fmt.Fprintln(h.out, inspector.Render(msgs))

	h.printPack("PACKED (no digest)", h.cfg.Policy.Pack(msgs, b), b)

	digested := digest.Messages(msgs, perMessage)
	ui.Section(h.out, "DIGESTED (per-message)")
	fmt.Fprintln(h.out, inspector.Render(digested))

	h.printPack("PACKED (with digest)", h.cfg.Policy.Pack(digested, b), b)
	return nil
}

// Transcript рендерит демо-журнал инструментов и упаковывает его вместе с диалогом
func (h *ContextHandler) Transcript(maxChars, budgetChars int) error {
	transcript := toollog.Render(DemoToolEvents(), maxChars)

	msgs := []message.Message{
		message.System("SYSTEM: output JSON. Follow safety policy."),
		message.Developer("DEV: keep it concise."),
		message.User("Plan a 2-day accessible Denver trip."),
		message.Tool(transcript),
		message.User("Give me two hotel options and a packing list."),
	}
	b := budget.Budget{MaxChars: budgetChars}

	ui.Section(h.out, "ORIGINAL")
	fmt.Fprintln(h.out, inspector.Render(msgs))

	h.printPack("PACKED", h.cfg.Policy.Pack(msgs, b), b)

	ui.Section(h.out, "TOOL TRANSCRIPT (rendered)")
	fmt.Fprintln(h.out, transcript)
	return nil
}

// Bundle сканирует фрагменты и собирает конверт с санитайзером и без
func (h *ContextHandler) Bundle(file string) error {
	chunks := DemoChunks()
	if file != "" {
		chunks = nil
		if err := loadJSON(file, &chunks); err != nil {
			ui.Error(h.out, "Не удалось загрузить фрагменты", err)
			return err
		}
	}

	for _, c := range chunks {
		ui.Section(h.out, "RAW CHUNK "+c.ID)
		fmt.Fprintln(h.out, c.Text)

		ui.Section(h.out, "SCAN FINDINGS")
		printFindings(h.out, injection.Scan(c.Text))
	}

	for _, sanitize := range []bool{true, false} {
		ui.Section(h.out, fmt.Sprintf("BUNDLED (sanitize=%t)", sanitize))
		res := retrieval.Bundle(chunks, retrieval.WithSanitize(sanitize))
		fmt.Fprintln(h.out, res.Text)
		fmt.Fprintf(h.out, "\nHad injection: %t\n", res.HadInjection)
	}
	return nil
}

func (h *ContextHandler) printPack(title string, res packer.Result, b budget.Budget) {
	ui.Section(h.out, ui.IconScissors+" "+title)
	fmt.Fprintln(h.out, inspector.Render(res.Packed))
	fmt.Fprintf(h.out, "\nFinal chars: %d (budget=%d)\n", res.FinalChars, b.MaxChars)

	fmt.Fprintln(h.out, "\n"+ui.ColorYellow+"--- DROPPED ---"+ui.ColorReset)
	if len(res.Dropped) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"Dropped: none"+ui.ColorReset)
		return
	}
	for _, m := range res.Dropped {
		preview := m.Content
		if budget.Len(preview) > 60 {
			preview = budget.Head(preview, 60) + budget.Ellipsis
		}
		fmt.Fprintf(h.out, "- %-9s | %4d chars | %q\n", m.Role, budget.Len(m.Content), preview)
	}
}

func printFindings(w io.Writer, findings []injection.Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(w, ui.ColorGray+"(none)"+ui.ColorReset)
		return
	}
	for _, f := range findings {
		fmt.Fprintf(w, "- "+ui.ColorYellow+"%s"+ui.ColorReset+": %q\n", f.Kind, f.Snippet)
	}
}
