package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"symptomminder/internal/bootstrap/logging"
	"symptomminder/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Jury     JuryConfig     `mapstructure:"jury"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Events   EventsConfig   `mapstructure:"events"`
	Server   ServerConfig   `mapstructure:"server"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// JuryConfig controls audit cadence and the panel of reviewing models.
// Mode is "never" or "every_N" with N a positive integer.
type JuryConfig struct {
	Mode                 string       `mapstructure:"mode"`
	MaxPanelTokens       int          `mapstructure:"max_panel_tokens"`
	MaxAggregationTokens int          `mapstructure:"max_aggregation_tokens"`
	Panel                []JuryMember `mapstructure:"panel"`
	Aggregator           JuryMember   `mapstructure:"aggregator"`
}

type JuryMember struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	Label    string `mapstructure:"label"`
}

type LLMConfig struct {
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
}

type EventsConfig struct {
	NATSURL string `mapstructure:"nats_url"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

// Modulus parses the jury mode into a trigger modulus: 0 means never audit,
// N means audit every Nth save.
func (c JuryConfig) Modulus() (int, error) {
	mode := strings.TrimSpace(strings.ToLower(c.Mode))
	if mode == "" || mode == "never" || mode == "none" {
		return 0, nil
	}

	raw, ok := strings.CutPrefix(mode, "every_")
	if !ok {
		return 0, fmt.Errorf("invalid jury mode %q", c.Mode)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid jury mode %q", c.Mode)
	}
	return n, nil
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}
	if _, err := cfg.Jury.Modulus(); err != nil {
		return Config{}, errs.Wrap(err, "parse jury mode")
	}
	if len(cfg.Jury.Panel) == 0 {
		cfg.Jury.Panel = defaultPanel()
	}
	if cfg.Jury.Aggregator.Model == "" {
		cfg.Jury.Aggregator = cfg.Jury.Panel[len(cfg.Jury.Panel)-1]
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("jury_mode", cfg.Jury.Mode),
		slog.Int("jury_panel_size", len(cfg.Jury.Panel)),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "symptomminder")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".symptomminder/state/symptoms.sqlite")
	v.SetDefault("jury.mode", "every_1")
	v.SetDefault("jury.max_panel_tokens", 512)
	v.SetDefault("jury.max_aggregation_tokens", 700)
}

func defaultPanel() []JuryMember {
	return []JuryMember{
		{Provider: "anthropic", Model: "claude-3-5-sonnet-latest", Label: "Claude 3.5 Sonnet (latest)"},
		{Provider: "anthropic", Model: "claude-3-7-sonnet-latest", Label: "Claude 3.7 Sonnet (latest)"},
		{Provider: "anthropic", Model: "claude-sonnet-4-20250514", Label: "Claude 4 Sonnet (20250514)"},
	}
}
