package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/coffee-shop-auth/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DB{User: "app", Pass: "secret", Host: "db", Port: "3306", Name: "coffee"})
	assert.Equal(t, "app:secret@tcp(db:3306)/coffee?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true&multiStatements=true", dsn)

	dsn = DSN(config.DB{User: "app", Host: "localhost", Port: "3307", Name: "coffee"})
	assert.Contains(t, dsn, "app@tcp(localhost:3307)/coffee?")
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
}
