// Package cli - дерево команд contextAgent.
package cli

import (
	"context"
	"io"

	"contextAgent/internal/cli/commands"
	"contextAgent/internal/cli/ui"
	"contextAgent/internal/config"
	"contextAgent/internal/llm"
	"contextAgent/internal/logger"
	"contextAgent/internal/pipeline"
	"contextAgent/internal/server"

	"github.com/spf13/cobra"
)

type CLI struct {
	root           *cobra.Command
	out            io.Writer
	contextHandler *commands.ContextHandler
	llmHandler     *commands.LLMHandler
	redteamHandler *commands.RedteamHandler
	logsHandler    *commands.LogsHandler
	newServer      func() *server.Server
}

// New собирает команды. gen и logs могут быть nil: тогда команды, которым они нужны, сообщают об ошибке.
func New(cfg *config.Cfg, log *logger.Zap, gen llm.Generator, logs commands.PromptLogLister, out io.Writer) *CLI {
	assembler := pipeline.New(cfg.Context, log.Logger)

	cli := &CLI{out: out}

	// Инициализация handlers
	cli.contextHandler = commands.NewContextHandler(cfg.Context, out)
	cli.llmHandler = commands.NewLLMHandler(gen, assembler, out, log.Logger)
	cli.redteamHandler = commands.NewRedteamHandler(gen, assembler, cfg.OpenAI.RunLLMTests, out, log.Logger)
	cli.logsHandler = commands.NewLogsHandler(logs, out, log.Logger)
	cli.newServer = func() *server.Server { return server.New(cfg, log.Logger, gen) }

	cli.root = cli.buildRoot()
	return cli
}

func (c *CLI) Execute(ctx context.Context, args []string) error {
	if args == nil {
		args = []string{}
	}
	c.root.SetArgs(args)
	return c.root.ExecuteContext(ctx)
}

func (c *CLI) buildRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "contextAgent",
		Short:         "Сборка, сжатие и защита контекста для LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.PrintWelcome(c.out)
			return cmd.Help()
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.out)

	root.AddCommand(
		c.inspectCmd(),
		c.packCmd(),
		c.digestCmd(),
		c.transcriptCmd(),
		c.bundleCmd(),
		c.contractCmd(),
		c.smokeCmd(),
		c.askCmd(),
		c.redteamCmd(),
		c.logsCmd(),
		c.serveCmd(),
	)
	return root
}

func (c *CLI) inspectCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Таблица сообщений: роль, размер, начало текста",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.contextHandler.Inspect(file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON-файл с сообщениями")
	return cmd
}

func (c *CLI) packCmd() *cobra.Command {
	var (
		file     string
		policy   string
		maxChars int
		mult     int
	)
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Сравнить recency-first и priority-first упаковку",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.contextHandler.Pack(file, policy, maxChars, mult)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON-файл с сообщениями")
	cmd.Flags().StringVarP(&policy, "policy", "p", "", "recency или priority (по умолчанию обе)")
	cmd.Flags().IntVar(&maxChars, "max-chars", 300, "Бюджет в символах")
	cmd.Flags().IntVar(&mult, "mult", 40, "Длина демо-сообщений")
	return cmd
}

func (c *CLI) digestCmd() *cobra.Command {
	var (
		file       string
		maxChars   int
		perMessage int
	)
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Упаковка до и после детерминированного сжатия",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.contextHandler.Digest(file, maxChars, perMessage)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON-файл с сообщениями")
	cmd.Flags().IntVar(&maxChars, "max-chars", 600, "Бюджет контекста в символах")
	cmd.Flags().IntVar(&perMessage, "digest-per", 180, "Лимит символов на сообщение после сжатия")
	return cmd
}

func (c *CLI) transcriptCmd() *cobra.Command {
	var maxChars, budgetChars int
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Журнал инструментов с маскировкой секретов",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.contextHandler.Transcript(maxChars, budgetChars)
		},
	}
	cmd.Flags().IntVar(&maxChars, "max-chars", 400, "Лимит символов журнала")
	cmd.Flags().IntVar(&budgetChars, "budget", 650, "Бюджет контекста в символах")
	return cmd
}

func (c *CLI) bundleCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Поиск инъекций и конверт для найденных фрагментов",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.contextHandler.Bundle(file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON-файл с фрагментами")
	return cmd
}

func (c *CLI) contractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contract [вопрос]",
		Short: "Запрос в формате JSON-контракта и его проверка",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := "Explain what context engineering is in one sentence."
			if len(args) == 1 {
				prompt = args[0]
			}
			return c.llmHandler.Contract(cmd.Context(), prompt)
		},
	}
}

func (c *CLI) smokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Проверить доступ к OpenAI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.llmHandler.Smoke(cmd.Context())
		},
	}
}

func (c *CLI) askCmd() *cobra.Command {
	var file, chunks string
	cmd := &cobra.Command{
		Use:   "ask <вопрос>",
		Short: "Собрать контекст и задать вопрос модели",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.llmHandler.Ask(cmd.Context(), args[0], file, chunks)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON-файл с предыдущими сообщениями")
	cmd.Flags().StringVar(&chunks, "chunks", "", "JSON-файл с найденными фрагментами")
	return cmd
}

func (c *CLI) redteamCmd() *cobra.Command {
	var (
		dir      string
		useModel bool
	)
	cmd := &cobra.Command{
		Use:   "redteam",
		Short: "Прогнать атакующие сценарии",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.redteamHandler.Run(cmd.Context(), dir, useModel)
		},
	}
	cmd.Flags().StringVar(&dir, "cases", "redteam/cases", "Каталог со сценариями *.json")
	cmd.Flags().BoolVar(&useModel, "openai", false, "Использовать OpenAI вместо офлайн-модели")
	return cmd
}

func (c *CLI) logsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Последние запросы к LLM из БД",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.logsHandler.Show(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Количество записей")
	return cmd
}

func (c *CLI) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "HTTP API сборки контекста (APP_HOST:APP_PORT)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.newServer().Run(cmd.Context())
		},
	}
}
