package product

import (
	"context"

	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/repository"
)

type Service struct {
	ctx context.Context
	rp  repository.IRepository
}

type IService interface {
	GetProducts(req *ListProductsRequest) *types.Response
	GetProduct(id uint) *types.Response
}

func NewService(ctx context.Context, rp repository.IRepository) IService {
	return &Service{
		ctx: ctx,
		rp:  rp,
	}
}

type ListProductsRequest struct {
	PageIndex int    `form:"pageIndex" binding:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" binding:"omitempty,min=1,max=50"`
	Sort      string `form:"sort" binding:"omitempty,oneof=name priceAsc priceDesc"`
	Search    string `form:"search"`
	Brands    string `form:"brands"`
	Types     string `form:"types"`
}
