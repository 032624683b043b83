package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kyoto-flow-api/pkg/config"
)

func TestDSNPostgres(t *testing.T) {
	driver, dsn, err := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "trip", SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, config.DriverPostgres, driver)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=trip sslmode=disable", dsn)
}

func TestDSNSQLite(t *testing.T) {
	driver, dsn, err := DSN(config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: "/tmp/trip.db"})
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, driver)
	assert.Equal(t, "file:/tmp/trip.db?_foreign_keys=on", dsn)

	_, _, err = DSN(config.DatabaseConfig{Driver: config.DriverSQLite})
	assert.Error(t, err)
}

func TestDSNUnknownDriver(t *testing.T) {
	_, _, err := DSN(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestStatements(t *testing.T) {
	stmts := Statements()
	require.Len(t, stmts, 4)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS trips")
	assert.Contains(t, stmts[3], "idx_trip_events_date")
}
