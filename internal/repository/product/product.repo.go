package product

import (
	"context"
	"errors"

	"storefront-checkout/internal/common/models"
	database "storefront-checkout/internal/pkg/db"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("product not found")

type ListQuery struct {
	PageIndex int
	PageSize  int
	Sort      string
	Search    string
	Brand     string
	Type      string
}

type IRepository interface {
	List(ctx context.Context, q ListQuery) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func sortClause(sort string) string {
	switch sort {
	case "priceAsc":
		return database.ASC.OrderBy("price")
	case "priceDesc":
		return database.DESC.OrderBy("price")
	default:
		return database.ASC.OrderBy("name")
	}
}

func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Product{})
	if q.Search != "" {
		tx = tx.Where("LOWER(name) LIKE LOWER(?)", "%"+q.Search+"%")
	}
	if q.Brand != "" {
		tx = tx.Where("brand = ?", q.Brand)
	}
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := tx.Order(sortClause(q.Sort)).
		Offset((q.PageIndex - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}
