package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	assert.Equal(t,
		"postgres://postgres@localhost:5432/moyb_db",
		connString(NewDBPoolParams{DBHost: "localhost", DBPort: "5432", DBName: "moyb_db"}),
	)
	assert.Equal(t,
		"postgres://planner:p%40ss@db:5433/moyb_db",
		connString(NewDBPoolParams{
			DBHost:     "db",
			DBPort:     "5433",
			DBName:     "moyb_db",
			DBUser:     "planner",
			DBPassword: "p@ss",
		}),
	)
}
