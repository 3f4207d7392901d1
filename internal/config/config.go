package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string
	DataDir       string

	GeminiAPIKey string
	LLMModel     string
	LLMTimeout   time.Duration

	SourceURL   string
	ProfilePath string

	MaxConcurrentFetches int
	NavTimeout           time.Duration
	SettleDelay          time.Duration

	TaskMaxRetries int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func Load() Config {
	cfg := Config{
		AppEnv:        getenv("APP_ENV", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8082"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DataDir:       getenv("DATA_DIR", "./data"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		LLMModel:     getenv("DEFAULT_LLM_MODEL", "gemini-1.5-flash"),
		LLMTimeout:   getenvDuration("LLM_TIMEOUT", 60*time.Second),

		SourceURL:   getenv("SOURCE_URL", "https://github.com/SimplifyJobs/Summer2026-Internships/blob/dev/README.md"),
		ProfilePath: getenv("PROFILE_PATH", "./profile.yaml"),

		MaxConcurrentFetches: getenvInt("MAX_CONCURRENT_FETCHES", 2),
		NavTimeout:           getenvDuration("NAV_TIMEOUT", 30*time.Second),
		SettleDelay:          getenvDuration("SETTLE_DELAY", 2*time.Second),

		TaskMaxRetries: getenvInt("TASK_MAX_RETRIES", 3),
	}
	if cfg.RedisAddr == "" {
		panic(fmt.Errorf("REDIS_ADDR is required"))
	}
	return cfg
}
