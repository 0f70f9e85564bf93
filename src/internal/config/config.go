package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=movement_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultChannelID = "LedgerApp"
const defaultChannelKey = "LedgerKey001"

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	NotifierWebsocket = "websocket"
	NotifierKafka     = "kafka"
	NotifierLog       = "log"
)

type Config struct {
	DatabaseDSN      string
	MigrationsDir    string
	ChannelID        string
	ChannelKey       string
	HTTPPort         int
	LogLevel         string
	LogPretty        bool
	Store            string
	Notifier         string
	KafkaBrokers     []string
	KafkaTopic       string
	RevocationWindow time.Duration
	NotifyTimeout    time.Duration
	RecoverySchedule string
	RecoveryGrace    time.Duration
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	conn := getEnv("DATABASE_DSN", defaultConnectionString)

	httpPort, err := getEnvAsInt("HTTP_PORT", 8080)
	if err != nil {
		return Config{}, err
	}
	revocationWindow, err := getEnvAsDuration("REVOCATION_WINDOW", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	notifyTimeout, err := getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	recoveryGrace, err := getEnvAsDuration("RECOVERY_GRACE", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DatabaseDSN:      normalizeConnectionString(conn),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", filepath.Join("src", "migrations")),
		ChannelID:        getEnv("CHANNEL_ID", defaultChannelID),
		ChannelKey:       getEnv("CHANNEL_KEY", defaultChannelKey),
		HTTPPort:         httpPort,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        strings.EqualFold(getEnv("LOG_PRETTY", "false"), "true"),
		Store:            strings.ToLower(getEnv("STORE", StorePostgres)),
		Notifier:         strings.ToLower(getEnv("NOTIFIER", NotifierWebsocket)),
		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "movement_notifications"),
		RevocationWindow: revocationWindow,
		NotifyTimeout:    notifyTimeout,
		RecoverySchedule: getEnv("RECOVERY_SCHEDULE", "@every 1m"),
		RecoveryGrace:    recoveryGrace,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}

	switch c.Notifier {
	case NotifierWebsocket, NotifierKafka, NotifierLog:
	default:
		return fmt.Errorf("NOTIFIER must be one of websocket, kafka, log, got %q", c.Notifier)
	}

	if c.Notifier == NotifierKafka && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when NOTIFIER=kafka")
	}
	if c.RevocationWindow <= 0 {
		return fmt.Errorf("REVOCATION_WINDOW must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
