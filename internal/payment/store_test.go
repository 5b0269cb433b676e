package payment

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() { sqlDB.Close() }
}

func TestGormStoreCreateTransaction(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `payment_transactions`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	store := &GormStore{db: db}
	tx := &Transaction{TransactionID: "t1", SagaID: "s1"}
	require.NoError(t, store.Create(context.Background(), tx))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFindBySagaIDNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `payment_transactions`")).
		WillReturnRows(sqlmock.NewRows(nil))

	store := &GormStore{db: db}
	_, err := store.FindBySagaID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
