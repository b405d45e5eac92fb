package postgres_test

import (
	"net/url"
	"testing"

	"hotel/config"
	"hotel/infras/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	node := config.PostgresNode{
		Host:     "db.internal",
		Port:     "5432",
		Username: "hotel",
		Password: "p@ss/word",
		Name:     "frontdesk",
		SSLMode:  "disable",
		Timezone: "Asia/Kolkata",
	}

	dsn := postgres.DSN(node, "stg_", url.Values{"x-migrations-table": {"schema_migrations"}})

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "/stg_frontdesk", parsed.Path)
	assert.Equal(t, "hotel", parsed.User.Username())
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "Asia/Kolkata", parsed.Query().Get("timezone"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestDSN_Minimal(t *testing.T) {
	dsn := postgres.DSN(config.PostgresNode{Host: "localhost", Port: "5432", Username: "u", Password: "p", Name: "hotel"}, "", nil)

	assert.Equal(t, "postgres://u:p@localhost:5432/hotel", dsn)
}

func TestNew_MemoryDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = config.DBDriverMemory

	assert.Nil(t, postgres.New(cfg))
}
