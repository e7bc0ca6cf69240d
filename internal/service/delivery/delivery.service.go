package delivery

import (
	"context"
	"net/http"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
)

func (s *Service) GetDeliveryMethods() *types.Response {
	methods, err := s.ListDeliveryMethods(s.ctx)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to load delivery methods",
			Error:   err,
		})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: methods})
}

// ListDeliveryMethods coalesces concurrent lookups into one query.
func (s *Service) ListDeliveryMethods(ctx context.Context) ([]models.DeliveryMethod, error) {
	v, err, _ := s.group.Do("delivery-methods", func() (any, error) {
		return s.rp.Delivery.FindAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	methods := v.([]models.DeliveryMethod)
	return append([]models.DeliveryMethod(nil), methods...), nil
}
