package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/validation"
	accountRepo "storefront-checkout/internal/repository/account"

	"github.com/google/uuid"
)

func (s *Service) UserInfo(user *types.UserWithAuth) *types.Response {
	u, err := s.CurrentUser(s.ctx, user.ID)
	if errors.Is(err, accountRepo.ErrUserNotFound) {
		return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "User not found", Error: err})
	}
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to load user", Error: err})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: UserInfoResponse{
			Email:       u.Email,
			DisplayName: strings.TrimSpace(u.FirstName + " " + u.LastName),
			Address:     u.Address,
		},
	})
}

func (s *Service) SaveAddress(user *types.UserWithAuth, req *AddressRequest) *types.Response {
	saved, err := s.UpdateAddress(s.ctx, user.ID, &models.Address{
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to save address", Error: err})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Message: "Address saved", Data: saved})
}

func (s *Service) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.rp.Account.FindUser(ctx, id)
}

func (s *Service) UpdateAddress(ctx context.Context, userID uuid.UUID, address *models.Address) (*models.Address, error) {
	if address == nil {
		return nil, errors.New("address is required")
	}
	if err := validation.Validate(address); err != nil {
		return nil, err
	}
	saved, err := s.rp.Account.UpsertAddress(ctx, userID, address)
	if err != nil {
		return nil, fmt.Errorf("failed to save address for %s: %w", userID, err)
	}
	return saved, nil
}

// Gateway binds the account service to one signed-in user.
type Gateway struct {
	svc    IService
	userID uuid.UUID
}

func (s *Service) ForUser(userID uuid.UUID) *Gateway {
	return &Gateway{svc: s, userID: userID}
}

func (g *Gateway) UpdateAddress(ctx context.Context, address *models.Address) error {
	_, err := g.svc.UpdateAddress(ctx, g.userID, address)
	return err
}

func (g *Gateway) CurrentUser(ctx context.Context) (*models.User, error) {
	return g.svc.CurrentUser(ctx, g.userID)
}
