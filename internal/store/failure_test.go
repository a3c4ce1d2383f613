package store_test

import (
	"context"
	"errors"
	"testing"

	"backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockStore opens a store over sqlmock speaking the postgres dialect
func newMockStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), db.NewGormConfig(gormlogger.Silent))
	require.NoError(t, err)
	return store.New(gdb), mock
}

func TestDriverFailureIsStoreError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT \* FROM "clients"`).WillReturnError(errors.New("connection reset by peer"))

	_, err := s.Clients.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.CodeStore, domain.CodeOf(err))

	var appErr *domain.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Failed to access client records", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUntranslatedDuplicateKeyIsConflict(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "clients"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_clients_email" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := s.Clients.Create(context.Background(), &domain.Client{Name: "Acme", Email: "a@acme.test"})
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestZeroRowDeleteIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "invoices"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.Invoices.Delete(context.Background(), 7)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
