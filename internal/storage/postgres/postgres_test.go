package postgres

import (
	"errors"
	"fmt"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"lectureRegistrar/internal/config"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Unique violation",
			err:      &pq.Error{Code: "23505"},
			expected: true,
		},
		{
			name:     "Wrapped unique violation",
			err:      fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}),
			expected: true,
		},
		{
			name:     "Foreign key violation",
			err:      &pq.Error{Code: "23503"},
			expected: false,
		},
		{
			name:     "Plain error",
			err:      errors.New("connection refused"),
			expected: false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, isUniqueViolation(tc.err))
		})
	}
}

func TestMigrationURL(t *testing.T) {
	t.Parallel()

	got := migrationURL(&config.Database{
		Host:     "db",
		Port:     5433,
		User:     "registrar",
		Password: "p@ss",
		DBName:   "lectures",
		SSLMode:  "disable",
	})

	assert.Equal(t, "postgres://registrar:p%40ss@db:5433/lectures?sslmode=disable", got)
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	entries, err := migrations.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}
