package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env string // dev | prod

	Port string

	StateBackend string // memory | mysql
	MySQLDSN     string // required when STATE_BACKEND=mysql

	// Optional: run migrations at startup (dev convenience)
	RunMigrations bool

	PollInterval time.Duration
	FetchTimeout time.Duration
	SendTimeout  time.Duration

	TelegramToken   string
	TelegramAPIBase string

	// Seed values for the persisted dev-mode record; the store copy is
	// authoritative once written.
	DevMode   bool
	DevUserID string

	LockPath string

	// Used by stockwatchctl to reach the API service.
	APIBaseURL string
	CtlToken   string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:           getenv("ENV", "dev"),
		Port:          getenv("PORT", "8080"),
		StateBackend:  getenv("STATE_BACKEND", "memory"),
		MySQLDSN:      getenv("DB_DSN", ""),
		RunMigrations: getenv("RUN_MIGRATIONS", "false") == "true",

		PollInterval: getenvSeconds("POLL_INTERVAL_SECONDS", 300),
		FetchTimeout: getenvSeconds("FETCH_TIMEOUT_SECONDS", 10),
		SendTimeout:  getenvSeconds("SEND_TIMEOUT_SECONDS", 10),

		TelegramToken:   getenv("TELEGRAM_TOKEN", ""),
		TelegramAPIBase: getenv("TELEGRAM_API_BASE", "https://api.telegram.org"),

		DevMode:   getenv("DEV_MODE", "false") == "true",
		DevUserID: getenv("DEV_USER_ID", ""),

		LockPath: getenv("LOCK_PATH", os.TempDir()+"/stockwatch-monitor.lock"),

		APIBaseURL: getenv("API_BASE_URL", "http://localhost:8080"),
		CtlToken:   getenv("CTL_TOKEN", ""),
	}
	return cfg
}

func getenv(key string, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getenvSeconds(key string, fallback int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(n) * time.Second
}
