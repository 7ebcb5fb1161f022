package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Host:     "db.internal",
		Port:     "5433",
		User:     "inventory",
		Password: "secret",
		DBName:   "inventorydb",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=inventory password=secret dbname=inventorydb sslmode=require",
		cfg.DSN(),
	)
}

func TestNewGormConnection(t *testing.T) {
	host := os.Getenv("INVENTORY_TEST_DB_HOST")
	if host == "" {
		t.Skip("INVENTORY_TEST_DB_HOST not set, skipping PostgreSQL integration test")
	}

	db, err := NewGormConnection(Config{
		Host:     host,
		Port:     "5432",
		User:     "postgres",
		Password: "postgres",
		DBName:   "inventorydb",
		SSLMode:  "disable",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.NoError(t, sqlDB.Ping())
}

func TestNewGormConnection_Unreachable(t *testing.T) {
	_, err := NewGormConnection(Config{
		Host:     "127.0.0.1",
		Port:     "1",
		User:     "postgres",
		Password: "postgres",
		DBName:   "inventorydb",
		SSLMode:  "disable",
	})
	assert.Error(t, err)
}
