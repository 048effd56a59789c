package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORAGE_BACKEND", "POSTGRES_URL", "MIGRATE_ON_START", "KAFKA_BROKERS", "CHANGES_TOPIC", "BCRYPT_COST"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, BackendPostgres, cfg.StorageBackend)
	require.Contains(t, cfg.PostgresURL, "/fitness")
	require.True(t, cfg.MigrateOnStart)
	require.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	require.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	require.False(t, cfg.PublishChanges())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Memory")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("CHANGES_TOPIC", "fitness.changes")
	t.Setenv("BCRYPT_COST", "4")

	cfg := Load()
	require.Equal(t, BackendMemory, cfg.StorageBackend)
	require.False(t, cfg.MigrateOnStart)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 4, cfg.BcryptCost)
	require.True(t, cfg.PublishChanges())
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("MIGRATE_ON_START", "maybe")
	t.Setenv("BCRYPT_COST", "high")

	cfg := Load()
	require.Equal(t, BackendPostgres, cfg.StorageBackend)
	require.True(t, cfg.MigrateOnStart)
	require.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
}
