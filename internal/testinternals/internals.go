package testinternals

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/db"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestDBParams points at the postgres used by integration tests, POSTGRES_HOST and
// POSTGRES_PASSWORD override the local defaults.
func TestDBParams() db.NewDBPoolParams {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	password := os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		password = "postgres"
	}
	return db.NewDBPoolParams{
		DBHost:     host,
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: password,
		DBName:     "fitness_test",
		SSLMode:    "disable",
	}
}

// NewTestDBPool migrates the test database and opens a pool to it. The pool is closed when
// the test ends.
func NewTestDBPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	params := TestDBParams()
	t.Logf("using postgres host: %s", params.DBHost)
	require.NoError(t, db.MigrateUp(params))

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPool, err := db.NewDBPool(timeoutCtx, params)
	require.NoError(t, err)
	require.NoError(t, dbPool.Ping(timeoutCtx))

	t.Cleanup(dbPool.Close)
	return dbPool
}

// CreateTestUser inserts a user with random credentials and returns its id. Deleting the user
// at cleanup cascades to the user's workouts and goals.
func CreateTestUser(t *testing.T, dbPool *pgxpool.Pool) string {
	t.Helper()

	id := uuid.NewString()
	_, err := dbPool.Exec(
		context.Background(),
		`INSERT INTO app_user (id, username, email, password_hash) VALUES ($1, $2, $3, $4)`,
		id, gofakeit.Username()+gofakeit.DigitN(6), gofakeit.DigitN(8)+gofakeit.Email(), "not-a-real-hash",
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if _, err := dbPool.Exec(context.Background(), `DELETE FROM app_user WHERE id = $1`, id); err != nil {
			t.Logf("delete test user %s: %s", id, err)
		}
	})
	return id
}
