package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"contextAgent/internal/packer"

	"github.com/joho/godotenv"
)

type Cfg struct {
	App        App
	Database   Database
	Logger     Logger
	OpenAI     OpenAI
	Context    Context
	Migrations Migrations
}

// App - адрес HTTP API (команда serve).
type App struct {
	Host string
	Port string
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Enabled - база нужна только для журнала запросов и включается заданием DB_HOST.
func (d Database) Enabled() bool {
	return d.Host != ""
}

// DSN для gorm/pgx.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// URL для golang-migrate.
func (d Database) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type Migrations struct {
	Path string
}

type Logger struct {
	Env   string
	Level string
}

type OpenAI struct {
	KeyAI            string
	Model            string
	BaseURL          string
	SafetyIdentifier string
	RunLLMTests      bool
}

// Context - лимиты сборки контекста.
type Context struct {
	MaxChars           int
	Policy             packer.Policy
	DigestMaxChars     int
	TranscriptMaxChars int
	SanitizeRetrieval  bool
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	policy, err := packer.ParsePolicy(env("CONTEXT_POLICY", string(packer.PolicyPriority)))
	if err != nil {
		return nil, fmt.Errorf("CONTEXT_POLICY: %w", err)
	}

	cfg := &Cfg{
		App: App{
			Host: env("APP_HOST", "127.0.0.1"),
			Port: env("APP_PORT", "8080"),
		},
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     env("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
		},
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
		},
		OpenAI: OpenAI{
			KeyAI:            os.Getenv("OPENAI_API_KEY"),
			Model:            env("OPENAI_MODEL", "gpt-5"),
			BaseURL:          os.Getenv("OPENAI_BASE_URL"),
			SafetyIdentifier: strings.TrimSpace(os.Getenv("OPENAI_SAFETY_IDENTIFIER")),
			RunLLMTests:      envBool("RUN_LLM_TESTS"),
		},
		Context: Context{
			MaxChars:           envInt("CONTEXT_MAX_CHARS", 4000),
			Policy:             policy,
			DigestMaxChars:     envInt("DIGEST_MAX_CHARS", 600),
			TranscriptMaxChars: envInt("TRANSCRIPT_MAX_CHARS", 1200),
			SanitizeRetrieval:  envBoolDefault("RETRIEVAL_SANITIZE", true),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
	}

	return cfg, nil
}

func env(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "true" || v == "1" || v == "yes"
}

func envBoolDefault(key string, defaultValue bool) bool {
	if strings.TrimSpace(os.Getenv(key)) == "" {
		return defaultValue
	}
	return envBool(key)
}
