package payment

import (
	"context"
	"errors"

	"storefront-checkout/internal/common/models"
	database "storefront-checkout/internal/pkg/db"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("payment intent not found")

type IRepository interface {
	Create(ctx context.Context, intent *models.PaymentIntent) error
	FindByID(ctx context.Context, id string) (*models.PaymentIntent, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.PaymentIntent, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	UpdateByOrderID(ctx context.Context, orderID string, updates map[string]any) error
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, intent *models.PaymentIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := r.db.WithContext(ctx).Where(query, arg).First(&intent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.PaymentIntent, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (*models.PaymentIntent, error) {
	return r.first(ctx, "order_id = ?", orderID)
}

func (r *Repository) Update(ctx context.Context, id string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.PaymentIntent{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateByOrderID(ctx context.Context, orderID string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.PaymentIntent{}).Where("order_id = ?", orderID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
