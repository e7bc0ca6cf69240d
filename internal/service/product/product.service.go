package product

import (
	"errors"
	"net/http"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	productRepo "storefront-checkout/internal/repository/product"

	"github.com/samber/lo"
)

const defaultPageSize = 6

func (s *Service) GetProducts(req *ListProductsRequest) *types.Response {
	q := productRepo.ListQuery{
		PageIndex: lo.Ternary(req.PageIndex > 0, req.PageIndex, 1),
		PageSize:  lo.Ternary(req.PageSize > 0, req.PageSize, defaultPageSize),
		Sort:      req.Sort,
		Search:    req.Search,
		Brand:     lo.FirstOr(helper.ParseCommaSeperatedString(req.Brands), ""),
		Type:      lo.FirstOr(helper.ParseCommaSeperatedString(req.Types), ""),
	}

	products, count, err := s.rp.Product.List(s.ctx, q)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to load products",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: types.PaginationResponse[models.Product]{
			PageIndex: q.PageIndex,
			PageSize:  q.PageSize,
			Count:     count,
			Data:      lo.Ternary(products == nil, []models.Product{}, products),
		},
	})
}

func (s *Service) GetProduct(id uint) *types.Response {
	p, err := s.rp.Product.FindByID(s.ctx, id)
	if errors.Is(err, productRepo.ErrNotFound) {
		return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Product not found", Error: err})
	}
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to load product", Error: err})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: p})
}
