package config

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`

	LabAPIURL   string         `mapstructure:"LAB_API_URL"`
	LabLocation *time.Location `mapstructure:"LAB_TIMEZONE"`
	Labs        []model.Laboratory
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`

	PollInterval     time.Duration `mapstructure:"POLL_INTERVAL"`
	StreamEnabled    bool          `mapstructure:"STREAM_ENABLED"`
	StreamMaxRetries uint64        `mapstructure:"STREAM_MAX_RETRIES"`
	NotifyDesktop    bool          `mapstructure:"NOTIFY_DESKTOP"`
	NotifySound      bool          `mapstructure:"NOTIFY_SOUND"`

	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из функции чтения переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:         getenv("DB_DSN"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		Environment:   getenv("ENV"),
		LabAPIURL:     strings.TrimRight(getenv("LAB_API_URL"), "/"),
		MigrationsDir: getenv("MIGRATIONS_DIR"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.LabAPIURL == "" {
		return nil, fmt.Errorf("LAB_API_URL is required but not set")
	}

	var err error
	if cfg.LabLocation, err = parseLocation(getenv("LAB_TIMEZONE")); err != nil {
		return nil, err
	}
	if cfg.Labs, err = ParseLabs(getenv("LABS")); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = parseDuration(getenv, "HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = parseDuration(getenv, "POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.StreamEnabled, err = parseBool(getenv, "STREAM_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.NotifyDesktop, err = parseBool(getenv, "NOTIFY_DESKTOP", true); err != nil {
		return nil, err
	}
	if cfg.NotifySound, err = parseBool(getenv, "NOTIFY_SOUND", false); err != nil {
		return nil, err
	}
	if v := getenv("STREAM_MAX_RETRIES"); v != "" {
		if cfg.StreamMaxRetries, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, fmt.Errorf("STREAM_MAX_RETRIES: %w", err)
		}
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// Lab ищет лабораторию по id
func (c *Config) Lab(id int64) (model.Laboratory, bool) {
	for _, lab := range c.Labs {
		if lab.ID == id {
			return lab, true
		}
	}
	return model.Laboratory{}, false
}

// ParseLabs разбирает список вида "1=Computer Lab,2=Network Lab"
func ParseLabs(s string) ([]model.Laboratory, error) {
	var labs []model.Laboratory
	seen := make(map[int64]bool)

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idStr, name, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("LABS: entry %q must be id=name", part)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("LABS: invalid id in %q", part)
		}
		if seen[id] {
			return nil, fmt.Errorf("LABS: duplicate id %d", id)
		}
		seen[id] = true
		labs = append(labs, model.Laboratory{ID: id, Name: strings.TrimSpace(name)})
	}

	sort.Slice(labs, func(i, j int) bool { return labs[i].ID < labs[j].ID })
	return labs, nil
}

func parseLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("LAB_TIMEZONE: %w", err)
	}
	return loc, nil
}

func parseDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func parseBool(getenv func(string) string, key string, def bool) (bool, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
