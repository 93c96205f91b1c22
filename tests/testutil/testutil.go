// Package testutil provides shared fixtures for the movable backend tests:
// databases, clocks, caller contexts and an HTTP client for the API.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/infrastructure/persistence/models"
	"github.com/movable/backend/internal/infrastructure/provider"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Accounts used across tests
var (
	Alice = shared.Account{ID: 1, UUID: "alice", Username: "alice"}
	Bob   = shared.Account{ID: 2, UUID: "bob", Username: "bob"}
	Admin = shared.Account{ID: 3, UUID: "admin", Username: "admin", Roles: []string{shared.RoleAdmin}}
)

// NewSQLiteDB opens an in-memory sqlite database with the catalog schema.
// The pool is pinned to one connection so every query sees the same memory database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open sqlite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate sqlite schema")
	return db
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a postgres flavoured GORM database backed by sqlmock.
// The connection is closed on cleanup.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// FixedClock is a shared.TimeProvider frozen at one instant
type FixedClock struct {
	At time.Time
}

// Now implements shared.TimeProvider
func (c FixedClock) Now() time.Time {
	return c.At
}

// DefaultClock is frozen at a fixed date so audit timestamps can be asserted
var DefaultClock = FixedClock{At: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}

// As returns a background context carrying account as the caller
func As(account shared.Account) context.Context {
	return provider.WithAccount(context.Background(), account)
}

// RequireEventually retries condition until it holds or fails the test after timeout.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
