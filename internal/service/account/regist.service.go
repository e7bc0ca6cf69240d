package account

import (
	"context"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	ctx context.Context
	rp  repository.IRepository
}

type IService interface {
	UserInfo(user *types.UserWithAuth) *types.Response
	SaveAddress(user *types.UserWithAuth, req *AddressRequest) *types.Response

	CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateAddress(ctx context.Context, userID uuid.UUID, address *models.Address) (*models.Address, error)
	ForUser(userID uuid.UUID) *Gateway
}

func NewService(ctx context.Context, rp repository.IRepository) IService {
	return &Service{
		ctx: ctx,
		rp:  rp,
	}
}

type AddressRequest struct {
	Line1      string  `json:"line1" binding:"required"`
	Line2      *string `json:"line2"`
	City       string  `json:"city" binding:"required"`
	State      string  `json:"state"`
	Country    string  `json:"country" binding:"required,len=2"`
	PostalCode string  `json:"postalCode" binding:"required"`
}

type UserInfoResponse struct {
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	Address     *models.Address `json:"address,omitempty"`
}
