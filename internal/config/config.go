package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App         App
	Log         Log
	Postgres    Postgres
	Redis       Redis
	Source      Source
	Scheduler   Scheduler
	Ingest      Ingest
	Translation Translation
	Merchant    Merchant
	Server      Server
	Bot         Bot
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"at-deals"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

type Ingest struct {
	BatchLimit         int           `env:"FETCH_BATCH_LIMIT" envDefault:"100"`
	Workers            int           `env:"NORMALIZE_WORKERS" envDefault:"8"`
	TranslationWorkers int           `env:"TRANSLATION_WORKERS" envDefault:"4"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	CycleBudget        time.Duration `env:"CYCLE_BUDGET" envDefault:"5m"`
}

type Merchant struct {
	LogoBaseURL   string `env:"MERCHANT_LOGO_BASE_URL"`
	FaviconURL    string `env:"MERCHANT_FAVICON_URL"`
	OverridesFile string `env:"MERCHANT_OVERRIDES_FILE"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	return Parse()
}

// Parse reads the process environment without touching .env files.
func Parse() (Config, error) {
	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	config.Source.AuthToken = correctNewlines(config.Source.AuthToken)

	if err := config.validate(); err != nil {
		return Config{}, fmt.Errorf("config.validate: %w", err)
	}

	return config, nil
}

func (c Config) validate() error {
	var errs []error

	if c.Scheduler.IntervalMin <= 0 || c.Scheduler.IntervalMax < c.Scheduler.IntervalMin {
		errs = append(errs, fmt.Errorf("FETCH_INTERVAL window [%s, %s] is invalid",
			c.Scheduler.IntervalMin, c.Scheduler.IntervalMax))
	}

	if c.Scheduler.StartDelayMin < 0 || c.Scheduler.StartDelayMax < c.Scheduler.StartDelayMin {
		errs = append(errs, fmt.Errorf("START_DELAY window [%s, %s] is invalid",
			c.Scheduler.StartDelayMin, c.Scheduler.StartDelayMax))
	}

	if c.Ingest.BatchLimit <= 0 {
		errs = append(errs, errors.New("FETCH_BATCH_LIMIT must be positive"))
	}

	if c.Ingest.Workers <= 0 || c.Ingest.TranslationWorkers <= 0 {
		errs = append(errs, errors.New("worker counts must be positive"))
	}

	if c.Bot.Enabled() && c.Bot.ChatID == 0 {
		errs = append(errs, errors.New("BOT_CHAT_ID is required when BOT_TOKEN is set"))
	}

	if err := c.Source.validate(); err != nil {
		errs = append(errs, err)
	}

	if err := c.Translation.validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func correctNewlines(s string) string {
	return strings.NewReplacer(`"`, "", `\n`, "\n").Replace(s)
}

// LoadRedis reads only the Redis section, for tools that do not run the
// pipeline.
func LoadRedis() (Redis, error) {
	_ = godotenv.Load()

	var r Redis
	if err := env.Parse(&r); err != nil {
		return Redis{}, fmt.Errorf("env.Parse: %w", err)
	}

	if !r.Enabled() {
		return Redis{}, errors.New("REDIS_ADDRESS is required")
	}

	return r, nil
}
