package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Migrate on a non-postgres driver must not touch pg_indexes.
func TestMigrate_SQLiteSkipsIndexProbe(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	SetDB(db)

	require.NoError(t, Migrate())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.Close()
}

func TestAddIndexes_CreatesOnlyMissing(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	// First index is missing and gets created; the rest already exist.
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`CREATE INDEX idx_spendings_project_status`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	for i := 0; i < 8; i++ {
		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	}

	require.NoError(t, AddIndexes(db))
	require.NoError(t, mock.ExpectationsWereMet())
}
