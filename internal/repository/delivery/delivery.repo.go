package delivery

import (
	"context"
	"errors"

	"storefront-checkout/internal/common/models"
	database "storefront-checkout/internal/pkg/db"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("delivery method not found")

type IRepository interface {
	FindAll(ctx context.Context) ([]models.DeliveryMethod, error)
	FindByID(ctx context.Context, id uint) (*models.DeliveryMethod, error)
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

// FindAll returns methods most expensive first, the order the storefront lists them in.
func (r *Repository) FindAll(ctx context.Context) ([]models.DeliveryMethod, error) {
	var methods []models.DeliveryMethod
	err := r.db.WithContext(ctx).Order(database.DESC.OrderBy("price")).Find(&methods).Error
	return methods, err
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.DeliveryMethod, error) {
	var m models.DeliveryMethod
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
