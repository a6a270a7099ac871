package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB returns a gorm DB backed by sqlmock so SQL-level outcomes
// like zero-row updates can be forced deterministically.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	})

	return db, mock
}

func TestUpdateNote_ZeroRowsMeansNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSpendingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "spending_records" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateNote(4242, "orphan note")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateNote_PropagatesRowCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSpendingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "spending_records" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateNote(7, "receipt filed")
	require.NoError(t, err)
}

// A rejection against a record that exists but already left pending must
// surface ErrSpendingNotPending, driven purely by the conditional
// update's row count.
func TestRecordRejection_TerminalRecordRefused(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSpendingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "spending_records" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .* FROM "spending_records" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "status"}).
			AddRow(9, 1, "approved"))
	mock.ExpectRollback()

	_, err := repo.RecordRejection(9, 3)
	require.ErrorIs(t, err, ErrSpendingNotPending)
}

// The same zero-row outcome with no backing record means the record is
// simply absent.
func TestRecordRejection_MissingRecord(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSpendingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "spending_records" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .* FROM "spending_records" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "status"}))
	mock.ExpectRollback()

	_, err := repo.RecordRejection(404, 3)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordApproval_TerminalRecordRefused(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSpendingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "spending_records" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "status", "total_members"}).
			AddRow(5, 1, "rejected", 3))
	mock.ExpectRollback()

	_, _, err := repo.RecordApproval(5, 2)
	require.ErrorIs(t, err, ErrSpendingNotPending)
}
