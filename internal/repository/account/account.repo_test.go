package account

import (
	"context"
	"testing"

	"storefront-checkout/internal/common/models"
	"storefront-checkout/internal/pkg/db/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepository_UpsertAddress(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewRepo(db)
	userID := uuid.New()

	mock.ExpectQuery(`INSERT INTO "addresses" .* ON CONFLICT \("user_id"\) DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	saved, err := repo.UpsertAddress(context.Background(), userID, &models.Address{
		ID: 99, Line1: "1 Main St", City: "NYC", Country: "US", PostalCode: "10001",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, uint(11), saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindUser(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock := dbtest.New(t)
		repo := NewRepo(db)
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		u, err := repo.FindUser(context.Background(), id)
		assert.Nil(t, u)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("preloads the address", func(t *testing.T) {
		db, mock := dbtest.New(t)
		repo := NewRepo(db)
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_name"}).
				AddRow(id.String(), "bob@test.com", "Bob", "Smith"))
		mock.ExpectQuery(`SELECT \* FROM "addresses" WHERE "addresses"."user_id" = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "line1", "city", "country", "postal_code"}).
				AddRow(1, id.String(), "1 Main St", "NYC", "US", "10001"))

		u, err := repo.FindUser(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "bob@test.com", u.Email)
		require.NotNil(t, u.Address)
		assert.Equal(t, "NYC", u.Address.City)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
