package account

import (
	"context"
	"errors"

	"storefront-checkout/internal/common/models"
	database "storefront-checkout/internal/pkg/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

type IRepository interface {
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpsertAddress(ctx context.Context, userID uuid.UUID, address *models.Address) (*models.Address, error)
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Preload("Address").Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertAddress replaces the user's single saved address.
func (r *Repository) UpsertAddress(ctx context.Context, userID uuid.UUID, address *models.Address) (*models.Address, error) {
	a := *address
	a.ID = 0
	a.UserID = userID

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"line1", "line2", "city", "state", "country", "postal_code"}),
	}).Create(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
