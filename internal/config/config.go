package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	Addr         string
	DBDSN        string
	RedisAddr    string
	CookieSecret string
	SessionTTL   time.Duration
	LogLevel     string

	UsersFile string
	QuizFile  string

	Throttle ThrottleConfig
}

// ThrottleConfig mirrors throttle.Config but lives here so the env parsing
// stays in one place. Zero values fall back to the guard's defaults.
type ThrottleConfig struct {
	MaxAttempts int
	Window      time.Duration
	BlockFor    time.Duration
	SweepEvery  time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:          getenv("APP_ENV"),
		Addr:         getenv("APP_ADDR"),
		DBDSN:        getenv("APP_DB_DSN"),
		RedisAddr:    getenv("APP_REDIS_ADDR"),
		LogLevel:     getenv("APP_LOG_LEVEL"),
		CookieSecret: getenv("APP_COOKIE_SECRET"),
		UsersFile:    getenv("APP_USERS_FILE"),
		QuizFile:     getenv("APP_QUIZ_FILE"),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:6789"
	}
	if cfg.UsersFile == "" {
		cfg.UsersFile = "data/users.json"
	}
	if cfg.QuizFile == "" {
		cfg.QuizFile = "data/quiz.json"
	}

	ttlRaw := getenv("APP_SESSION_TTL")
	if ttlRaw == "" {
		cfg.SessionTTL = 24 * time.Hour
	} else {
		ttl, err := time.ParseDuration(ttlRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_SESSION_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, errors.New("APP_SESSION_TTL: must be > 0")
		}
		cfg.SessionTTL = ttl
	}

	var err error
	cfg.Throttle.MaxAttempts, err = parseIntEnv(getenv, "APP_THROTTLE_MAX_ATTEMPTS")
	if err != nil {
		return Config{}, err
	}
	cfg.Throttle.Window, err = parseDurationEnv(getenv, "APP_THROTTLE_WINDOW")
	if err != nil {
		return Config{}, err
	}
	cfg.Throttle.BlockFor, err = parseDurationEnv(getenv, "APP_THROTTLE_BLOCK_FOR")
	if err != nil {
		return Config{}, err
	}
	cfg.Throttle.SweepEvery, err = parseDurationEnv(getenv, "APP_THROTTLE_SWEEP_EVERY")
	if err != nil {
		return Config{}, err
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	if cfg.IsProd() {
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
		if len(cfg.CookieSecret) < 32 {
			return Config{}, errors.New("APP_COOKIE_SECRET: must be at least 32 bytes in prod")
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

func (c Config) CookieSecure() bool { return c.IsProd() }

func parseIntEnv(getenv func(string) string, key string) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be > 0", key)
	}
	return n, nil
}

func parseDurationEnv(getenv func(string) string, key string) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be > 0", key)
	}
	return d, nil
}
