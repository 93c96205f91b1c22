package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/movable/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/movable/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingRegistrar struct {
	calls int
}

func (r *recordingRegistrar) Register(*gorm.DB) error {
	r.calls++
	return nil
}

func TestDialector(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		d, err := Dialector(&config.DatabaseConfig{Driver: config.DriverPostgres, Host: "localhost", Port: 5432})
		require.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("sqlite", func(t *testing.T) {
		d, err := Dialector(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", d.Name())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Dialector(&config.DatabaseConfig{Driver: "mysql"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})
}

func TestNewDatabase_SQLite(t *testing.T) {
	registrar := &recordingRegistrar{}

	db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, WithRegistrar(registrar))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 1, registrar.calls)
	require.NoError(t, db.Ping())

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	mockDB := testutil.NewMockDB(t)
	return &Database{DB: mockDB.DB}, mockDB.Mock
}

func TestDatabase_Ping(t *testing.T) {
	db, _ := newMockDatabase(t)
	assert.NoError(t, db.Ping())
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("commits", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM songs WHERE music_id = \$1`).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Exec("DELETE FROM songs WHERE music_id = ?", 3).Error
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(func(*gorm.DB) error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
