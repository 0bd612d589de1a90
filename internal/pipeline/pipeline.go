// Package pipeline собирает контекст для модели из переписки, найденных фрагментов
// и журнала инструментов, укладывая его в бюджет по выбранной политике.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contextAgent/internal/budget"
	"contextAgent/internal/config"
	"contextAgent/internal/contract"
	"contextAgent/internal/digest"
	"contextAgent/internal/injection"
	"contextAgent/internal/llm"
	"contextAgent/internal/message"
	"contextAgent/internal/packer"
	"contextAgent/internal/retrieval"
	"contextAgent/internal/toollog"

	"go.uber.org/zap"
)

var ErrEmptyRequest = errors.New("пустой запрос: нет сообщений")

// Request - исходные данные одного обращения к модели.
type Request struct {
	Messages []message.Message
	Chunks   []retrieval.Chunk
	Events   []toollog.Event
}

// Context - результат сборки.
type Context struct {
	Instructions string
	Input        string
	Pack         packer.Result
	HadInjection bool
	// Sanitized - опасные строки фрагментов удалены перед упаковкой.
	Sanitized    bool
	Findings     []injection.Finding
}

// Answer - проверенный ответ модели.
type Answer struct {
	Context  *Context
	Response *contract.Response
	Raw      string
}

type Assembler struct {
	policy        packer.Policy
	budget        budget.Budget
	digestMax     int
	transcriptMax int
	sanitize      bool
	log           *zap.Logger
}

func New(cfg config.Context, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{
		policy:        cfg.Policy,
		budget:        budget.Budget{MaxChars: cfg.MaxChars},
		digestMax:     cfg.DigestMaxChars,
		transcriptMax: cfg.TranscriptMaxChars,
		sanitize:      cfg.SanitizeRetrieval,
		log:           log,
	}
}

// Assemble сжимает реплики диалога, добавляет найденные фрагменты и журнал инструментов
// как tool-сообщения и упаковывает всё в бюджет. System и developer не сжимаются.
func (a *Assembler) Assemble(req Request) (*Context, error) {
	if len(req.Messages) == 0 {
		return nil, ErrEmptyRequest
	}

	msgs := make([]message.Message, 0, len(req.Messages)+2)
	for _, m := range req.Messages {
		if m.Role == message.RoleSystem || m.Role == message.RoleDeveloper || a.digestMax <= 0 {
			msgs = append(msgs, m)
			continue
		}
		msgs = append(msgs, digest.Messages([]message.Message{m}, a.digestMax)[0])
	}

	out := &Context{}

	if len(req.Chunks) > 0 {
		bundle := retrieval.Bundle(req.Chunks, retrieval.WithSanitize(a.sanitize))
		out.HadInjection = bundle.HadInjection
		out.Sanitized = bundle.HadInjection && a.sanitize
		out.Findings = bundle.Findings
		if bundle.HadInjection {
			a.log.Warn("В найденных фрагментах обнаружены инструкции",
				zap.Int("findings", len(bundle.Findings)),
				zap.Bool("sanitized", a.sanitize),
			)
		}
		msgs = append(msgs, message.Tool(bundle.Text).WithMeta(map[string]any{"source": "retrieval"}))
	}

	if len(req.Events) > 0 {
		transcript := toollog.Render(req.Events, a.transcriptMax)
		msgs = append(msgs, message.Tool(transcript).WithMeta(map[string]any{"source": "tool_log"}))
	}

	out.Pack = a.policy.Pack(msgs, a.budget)
	out.Instructions, out.Input = render(out.Pack.Packed)

	a.log.Debug("Контекст собран",
		zap.String("policy", string(a.policy)),
		zap.Int("packed", len(out.Pack.Packed)),
		zap.Int("dropped", len(out.Pack.Dropped)),
		zap.Int("chars", out.Pack.FinalChars),
		zap.Int("budget", a.budget.MaxChars),
	)
	return out, nil
}

// Ask собирает контекст, добавляет инструкцию контракта и проверяет ответ модели.
func (a *Assembler) Ask(ctx context.Context, gen llm.Generator, req Request) (*Answer, error) {
	c, err := a.Assemble(req)
	if err != nil {
		return nil, err
	}

	instructions := contract.Instructions()
	if c.Instructions != "" {
		instructions = c.Instructions + "\n\n" + instructions
	}

	res, err := gen.Generate(ctx, instructions, c.Input)
	if err != nil {
		return nil, fmt.Errorf("генерация ответа: %w", err)
	}

	resp, err := contract.Validate(res.Text)
	if err != nil {
		a.log.Warn("Ответ модели не прошёл проверку контракта", zap.Error(err))
		return &Answer{Context: c, Raw: res.Text}, err
	}

	return &Answer{Context: c, Response: resp, Raw: res.Text}, nil
}

// render делит упакованные сообщения на инструкции (system, developer) и вход (остальные роли).
func render(packed []message.Message) (instructions, input string) {
	var head, body []string
	for _, m := range packed {
		switch m.Role {
		case message.RoleSystem, message.RoleDeveloper:
			head = append(head, m.Content)
		default:
			body = append(body, strings.ToUpper(string(m.Role))+": "+m.Content)
		}
	}
	return strings.Join(head, "\n\n"), strings.Join(body, "\n")
}
