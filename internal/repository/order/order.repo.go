package order

import (
	"context"
	"errors"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	database "storefront-checkout/internal/pkg/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("order not found")

type IRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	FindForBuyer(ctx context.Context, buyerID uuid.UUID, id uint) (*models.Order, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	UpdateStatusByPaymentIntent(ctx context.Context, paymentIntentID string, status enum.OrderStatusEnum) error
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

// Create inserts the order and its items in one transaction.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("DeliveryMethod", "OrderItems").Create(order).Error; err != nil {
			return err
		}
		if len(order.OrderItems) == 0 {
			return nil
		}
		for i := range order.OrderItems {
			order.OrderItems[i].OrderID = order.ID
		}
		return tx.Create(&order.OrderItems).Error
	})
}

func (r *Repository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("DeliveryMethod").Preload("OrderItems")
}

func (r *Repository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	var o models.Order
	err := r.withDetails(ctx).Where("payment_intent_id = ?", paymentIntentID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) FindForBuyer(ctx context.Context, buyerID uuid.UUID, id uint) (*models.Order, error) {
	var o models.Order
	err := r.withDetails(ctx).Where("buyer_id = ? AND id = ?", buyerID, id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.withDetails(ctx).
		Where("buyer_id = ?", buyerID).
		Order(database.DESC.OrderBy("order_date")).
		Find(&orders).Error
	return orders, err
}

func (r *Repository) UpdateStatusByPaymentIntent(ctx context.Context, paymentIntentID string, status enum.OrderStatusEnum) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_intent_id = ?", paymentIntentID).
		Update("status", status).Error
}
