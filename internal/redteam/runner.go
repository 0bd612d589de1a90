package redteam

import (
	"context"
	"fmt"
	"strings"

	"contextAgent/internal/llm"
	"contextAgent/internal/pipeline"

	"go.uber.org/zap"
)

// Outcome - результат одного сценария.
type Outcome struct {
	CaseID   string
	Passed   bool
	Failures []string
	Output   string
}

type Summary struct {
	Total  int
	Passed int
	Failed int
}

type Runner struct {
	assembler *pipeline.Assembler
	gen       llm.Generator
	log       *zap.Logger
}

func NewRunner(assembler *pipeline.Assembler, gen llm.Generator, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{assembler: assembler, gen: gen, log: log}
}

// Run выполняет сценарии по порядку. Ошибка сборки или генерации останавливает прогон.
func (r *Runner) Run(ctx context.Context, cases []Case) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(cases))

	for _, c := range cases {
		built, err := r.assembler.Assemble(pipeline.Request{Messages: c.Messages})
		if err != nil {
			return outcomes, fmt.Errorf("сценарий %s: %w", c.ID, err)
		}

		res, err := r.gen.Generate(ctx, built.Instructions, built.Input)
		if err != nil {
			return outcomes, fmt.Errorf("сценарий %s: %w", c.ID, err)
		}

		failures := Evaluate(res.Text, c.Assertions)
		outcomes = append(outcomes, Outcome{
			CaseID:   c.ID,
			Passed:   len(failures) == 0,
			Failures: failures,
			Output:   res.Text,
		})

		r.log.Info("Сценарий выполнен",
			zap.String("case", c.ID),
			zap.Bool("passed", len(failures) == 0),
			zap.Int("failures", len(failures)),
		)
	}

	return outcomes, nil
}

// Evaluate проверяет утверждения; неизвестные типы пропускаются.
func Evaluate(output string, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		switch a.Type {
		case AssertContains:
			if !strings.Contains(output, a.Value) {
				failures = append(failures, fmt.Sprintf("missing %q", a.Value))
			}
		case AssertNotContains:
			if strings.Contains(output, a.Value) {
				failures = append(failures, fmt.Sprintf("should not contain %q", a.Value))
			}
		}
	}
	return failures
}

func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}
