package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "x-paystack-signature", cfg.Paystack.SignatureHeader)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Settlement.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "PAYSTACK_SECRET_KEY=sk_test_file\nSTORE_DRIVER=Mongo\nDATABASE_NAME=ledger\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DATABASE_NAME", "from_env")
	t.Setenv("SETTLEMENT_CACHE_TTL", "90m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk_test_file", cfg.Paystack.SecretKey)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, "from_env", cfg.Database.Name)
	assert.Equal(t, 90*time.Minute, cfg.Settlement.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		cfg := &Config{Store: StoreConfig{Driver: StoreDriverPostgres}}
		assert.ErrorIs(t, cfg.Validate(), ErrMissingWebhookSecret)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &Config{
			Paystack: PaystackConfig{SecretKey: "sk_test"},
			Store:    StoreConfig{Driver: "dynamo"},
		}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported store.driver")
	})
}

func TestDatabaseConfig_Strings(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", c.URL())
}
