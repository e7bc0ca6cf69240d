package payment

import (
	"context"
	"testing"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	"storefront-checkout/internal/pkg/db/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepository_Create(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewRepo(db)

	mock.ExpectExec(`INSERT INTO "payment_intents"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.PaymentIntent{
		ID:       "pi_1",
		CartID:   "cart-1",
		OrderID:  "cart-1-abc",
		Amount:   3000,
		Currency: "IDR",
		Status:   enum.INTENT_REQUIRES_PAYMENT_METHOD,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByOrderID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := dbtest.New(t)
		repo := NewRepo(db)

		mock.ExpectQuery(`SELECT \* FROM "payment_intents" WHERE order_id = \$1`).
			WithArgs("cart-1-abc", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "order_id", "amount", "status"}).
				AddRow("pi_1", "cart-1", "cart-1-abc", 3000, "processing"))

		intent, err := repo.FindByOrderID(context.Background(), "cart-1-abc")
		require.NoError(t, err)
		assert.Equal(t, enum.INTENT_PROCESSING, intent.Status)
		assert.EqualValues(t, 3000, intent.Amount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := dbtest.New(t)
		repo := NewRepo(db)

		mock.ExpectQuery(`SELECT \* FROM "payment_intents" WHERE order_id = \$1`).
			WithArgs("nope", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByOrderID(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepository_Update(t *testing.T) {
	t.Run("no rows means not found", func(t *testing.T) {
		db, mock := dbtest.New(t)
		repo := NewRepo(db)

		mock.ExpectExec(`UPDATE "payment_intents" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), "pi_x", map[string]any{"status": enum.INTENT_SUCCEEDED})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
