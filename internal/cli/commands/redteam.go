package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"contextAgent/internal/cli/ui"
	"contextAgent/internal/llm"
	"contextAgent/internal/pipeline"
	"contextAgent/internal/redteam"

	"go.uber.org/zap"
)

var ErrLLMTestsDisabled = errors.New("установите RUN_LLM_TESTS=1 для прогона на OpenAI")

// RedteamHandler прогоняет атакующие сценарии
type RedteamHandler struct {
	gen         llm.Generator
	assembler   *pipeline.Assembler
	runLLMTests bool
	out         io.Writer
	log         *zap.Logger
}

func NewRedteamHandler(gen llm.Generator, assembler *pipeline.Assembler, runLLMTests bool, out io.Writer, log *zap.Logger) *RedteamHandler {
	return &RedteamHandler{
		gen:         gen,
		assembler:   assembler,
		runLLMTests: runLLMTests,
		out:         out,
		log:         log,
	}
}

// Run загружает сценарии из dir. Без useModel используется офлайн-модель.
func (h *RedteamHandler) Run(ctx context.Context, dir string, useModel bool) error {
	var gen llm.Generator = llm.Fake{}
	if useModel {
		if !h.runLLMTests {
			ui.Error(h.out, ErrLLMTestsDisabled.Error(), nil)
			return ErrLLMTestsDisabled
		}
		if h.gen == nil {
			ui.Error(h.out, ErrNoLLM.Error(), nil)
			return ErrNoLLM
		}
		gen = h.gen
	}

	cases, err := redteam.LoadCases(dir)
	if err != nil {
		ui.Error(h.out, "Не удалось загрузить сценарии", err)
		return err
	}
	if len(cases) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"Сценарии не найдены в "+dir+ui.ColorReset)
		return nil
	}

	outcomes, err := redteam.NewRunner(h.assembler, gen, h.log).Run(ctx, cases)
	if err != nil {
		ui.Error(h.out, "Прогон остановлен", err)
		return err
	}

	printScorecard(h.out, outcomes)
	return nil
}

func printScorecard(w io.Writer, outcomes []redteam.Outcome) {
	ui.Section(w, ui.IconShield+" Red-team scorecard")
	for _, o := range outcomes {
		icon, color, text := ui.FormatOutcome(o.Passed)
		fmt.Fprintf(w, color+"%s %s"+ui.ColorReset+" %s\n", icon, text, o.CaseID)
		for _, f := range o.Failures {
			fmt.Fprintf(w, "    "+ui.ColorGray+"- %s"+ui.ColorReset+"\n", f)
		}
	}

	s := redteam.Summarize(outcomes)
	fmt.Fprintf(w, "\n"+ui.IconChart+" Passed: %d / %d | Failed: %d\n", s.Passed, s.Total, s.Failed)
}
