// Package config loads the settings of the pret tool from the environment,
// and from a .env file in the working directory when there is one.
package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/etnz/returns"
	"github.com/joho/godotenv"
)

// Config holds the settings of the pret tool, read from PRET_* variables.
type Config struct {
	LogLevel   string `env:"PRET_LOG_LEVEL" envDefault:"info"`
	LedgerFile string `env:"PRET_LEDGER_FILE" envDefault:"transactions.jsonl"`
	// Currency is the currency of ledger prices recorded without one.
	Currency string `env:"PRET_CURRENCY" envDefault:""`
	Quotes   Quotes
	Engine   Engine
	Server   Server
	Assist   Assist
}

// Quotes locates the quotes file and the JSONPath of its prices and closes.
type Quotes struct {
	File        string `env:"PRET_QUOTES_FILE" envDefault:"quotes.json"`
	PricesPath  string `env:"PRET_QUOTES_PRICES_PATH" envDefault:"$.prices"`
	HistoryPath string `env:"PRET_QUOTES_HISTORY_PATH" envDefault:"$.history"`
}

// Engine holds the parameters of the return computations.
type Engine struct {
	FinanceRate    float64   `env:"PRET_FINANCE_RATE" envDefault:"0.10"`
	ReinvestRate   float64   `env:"PRET_REINVEST_RATE" envDefault:"0.10"`
	Tolerance      float64   `env:"PRET_XIRR_TOLERANCE" envDefault:"1e-5"`
	MaxIterations  int       `env:"PRET_XIRR_MAX_ITERATIONS" envDefault:"1000"`
	Seeds          []float64 `env:"PRET_XIRR_SEEDS" envDefault:"0.1,0.0,0.2,-0.1,0.5" envSeparator:","`
	Workers        int       `env:"PRET_WORKERS" envDefault:"4"`
	BenchmarkYears int       `env:"PRET_BENCHMARK_YEARS" envDefault:"5"`
}

// Server holds the settings of the HTTP API.
type Server struct {
	Addr         string        `env:"PRET_ADDR" envDefault:":8080"`
	CORSOrigins  []string      `env:"PRET_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	ReadTimeout  time.Duration `env:"PRET_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"PRET_WRITE_TIMEOUT" envDefault:"30s"`
}

// Assist holds the settings of the AI assistant.
type Assist struct {
	Model string `env:"PRET_ASSIST_MODEL" envDefault:"gemini-2.5-flash"`
}

// Load reads the configuration. Variables already set in the environment
// take precedence over the .env file.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is like Load but exits when the configuration is invalid.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("unable to load config: %v", err)
	}
	return cfg
}

// Validate checks values the environment parser cannot.
func (c *Config) Validate() error {
	if c.Currency != "" {
		if err := returns.ValidateCurrency(c.Currency); err != nil {
			return fmt.Errorf("PRET_CURRENCY: %w", err)
		}
	}
	if c.Engine.Tolerance <= 0 {
		return fmt.Errorf("PRET_XIRR_TOLERANCE must be positive, got %g", c.Engine.Tolerance)
	}
	if c.Engine.MaxIterations <= 0 {
		return fmt.Errorf("PRET_XIRR_MAX_ITERATIONS must be positive, got %d", c.Engine.MaxIterations)
	}
	if len(c.Engine.Seeds) == 0 {
		return fmt.Errorf("PRET_XIRR_SEEDS must not be empty")
	}
	for _, s := range c.Engine.Seeds {
		if s <= -1 {
			return fmt.Errorf("PRET_XIRR_SEEDS: seed %g is not above -100%%", s)
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Analyzer returns an Analyzer parameterized by the engine settings.
func (c *Config) Analyzer() *returns.Analyzer {
	return &returns.Analyzer{
		Solver: returns.Solver{
			Tolerance:     c.Engine.Tolerance,
			MaxIterations: c.Engine.MaxIterations,
			Seeds:         c.Engine.Seeds,
		},
		FinanceRate:  c.Engine.FinanceRate,
		ReinvestRate: c.Engine.ReinvestRate,
		Workers:      c.Engine.Workers,
	}
}

// QuoteFormat returns where prices and closes are found in the quotes file.
func (c *Config) QuoteFormat() returns.QuoteFormat {
	return returns.QuoteFormat{
		Prices:   c.Quotes.PricesPath,
		History:  c.Quotes.HistoryPath,
		Currency: c.Currency,
	}
}

// Logger returns a text logger writing to stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("PRET_LOG_LEVEL: unknown level %q", s)
}
