package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_DSN", "STORE", "NOTIFIER", "REVOCATION_WINDOW", "HTTP_PORT", "KAFKA_BROKERS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, NotifierWebsocket, cfg.Notifier)
	assert.Equal(t, 24*time.Hour, cfg.RevocationWindow)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Contains(t, cfg.DatabaseDSN, "dbname=movement_ledger_db")
	assert.Contains(t, cfg.DatabaseDSN, "sslmode=disable")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("NOTIFIER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("REVOCATION_WINDOW", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, NotifierKafka, cfg.Notifier)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Hour, cfg.RevocationWindow)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("STORE", "mongo")

	_, err := Load()
	require.Error(t, err)
}

func TestNormalizeConnectionString(t *testing.T) {
	dsn := normalizeConnectionString("Host=db;Port=5433;Database=ledger;Username=app;Password=x;CommandTimeout=15;SslMode=require")
	assert.Equal(t, "host=db port=5433 dbname=ledger user=app password=x statement_timeout=15s sslmode=require", dsn)
}
