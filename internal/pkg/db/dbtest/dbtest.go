// Package dbtest opens a gorm handle over go-sqlmock for repository tests.
package dbtest

import (
	"testing"

	database "storefront-checkout/internal/pkg/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	_logger "gorm.io/gorm/logger"
)

func New(t *testing.T) (*database.Database, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 _logger.Default.LogMode(_logger.Silent),
	})
	require.NoError(t, err)

	return database.Wrap(gormDB), mock
}
