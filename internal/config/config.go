package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"EconomyBench/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Catalog struct {
		Path string `yaml:"path"` // file path or http(s) URL
	} `yaml:"catalog"`
	Simulation model.SimulationConfig `yaml:"simulation"`
	Run        struct {
		Days          int `yaml:"days"`
		Assistants    int `yaml:"assistants"`
		MaxAssistants int `yaml:"max_assistants"`
		HorizonDays   int `yaml:"horizon_days"`
	} `yaml:"run"`
	Report struct {
		Cron string `yaml:"cron"`
		Dir  string `yaml:"dir"`
		TopN int    `yaml:"top_n"`
	} `yaml:"report"`
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads an optional .env file and the YAML config at path, then applies
// environment variable overrides and defaults. A missing config file is not
// an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Simulation: model.DefaultSimulationConfig()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REPORT_CRON"); v != "" {
		cfg.Report.Cron = v
	}
	if v := os.Getenv("REPORT_DIR"); v != "" {
		cfg.Report.Dir = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if err := envFloat("STARTING_CASH", &cfg.Simulation.StartingCash); err != nil {
		return nil, err
	}
	if err := envFloat("BASE_DAY_HOURS", &cfg.Simulation.BaseDayHours); err != nil {
		return nil, err
	}

	// Defaults
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "data/economy.json"
	}
	if cfg.Run.Days == 0 {
		cfg.Run.Days = 30
	}
	if cfg.Run.MaxAssistants == 0 {
		cfg.Run.MaxAssistants = 3
	}
	if cfg.Run.HorizonDays == 0 {
		cfg.Run.HorizonDays = 30
	}
	if cfg.Report.Cron == "" {
		cfg.Report.Cron = "0 0 6 * * *"
	}
	if cfg.Report.Dir == "" {
		cfg.Report.Dir = "reports"
	}
	if cfg.Report.TopN == 0 {
		cfg.Report.TopN = 10
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/economy_bench.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// NotificationsEnabled reports whether report digests go to Telegram.
func (c *Config) NotificationsEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	if c.Run.Days < 0 {
		return fmt.Errorf("run.days must not be negative")
	}
	if c.Run.Assistants < 0 || c.Run.MaxAssistants < 0 {
		return fmt.Errorf("run assistants must not be negative")
	}
	if c.Run.HorizonDays < 0 {
		return fmt.Errorf("run.horizon_days must not be negative")
	}
	if c.Simulation.BaseDayHours < 0 {
		return fmt.Errorf("simulation.base_day_hours must not be negative")
	}
	if c.Simulation.AssistantHoursPerDay < 0 {
		return fmt.Errorf("simulation.assistant_hours_per_day must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Report.Cron == "" {
		return fmt.Errorf("report.cron is required")
	}
	return nil
}
