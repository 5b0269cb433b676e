package order

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

func TestGormStoreCreate(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `orders`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	store := &GormStore{db: db}
	o := &Order{OrderID: "order-1", SagaID: "saga-1", Status: StatusPending}
	require.NoError(t, store.Create(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFindBySagaIDNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `orders`")).
		WillReturnRows(sqlmock.NewRows(nil))

	store := &GormStore{db: db}
	_, err := store.FindBySagaID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
