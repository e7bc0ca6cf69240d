package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront-checkout/internal/common/enum"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/logger"
	paymentRepo "storefront-checkout/internal/repository/payment"

	"github.com/midtrans/midtrans-go/coreapi"
)

// CreateOrUpdateIntent sizes the payment intent of a stored cart and returns the cart.
func (s *Service) CreateOrUpdateIntent(cartID string) *types.Response {
	c, err := s.carts.Load(s.ctx, cartID)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to load cart",
			Error:   err,
		})
	}
	if c == nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Problem with your cart",
			Error:   ErrNoCart,
		})
	}

	updated, err := s.UpsertIntent(s.ctx, c, "")
	if err != nil {
		logger.Error.Printf("Failed to upsert payment intent for cart %s: %v", cartID, err)
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create payment",
			Error:   err,
		})
	}
	if err := s.carts.Save(s.ctx, updated); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save cart",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Payment intent ready",
		Data:    updated,
	})
}

func (s *Service) CheckPaymentStatus(orderID string) *types.Response {
	// Check from Midtrans directly (real-time)
	transactionStatusResp, midErr := s.midtrans.CoreAPI.CheckTransaction(orderID)
	if midErr != nil {
		// Fallback to database
		intent, err := s.rp.Payment.FindByOrderID(s.ctx, orderID)
		if err != nil {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusNotFound,
				Message: "Transaction not found",
				Error:   err,
			})
		}
		return helper.ParseResponse(&types.Response{
			Code: http.StatusOK,
			Data: PaymentStatusResponse{
				OrderID:       intent.OrderID,
				Status:        intent.Status.ToString(),
				Amount:        intent.Amount,
				PaymentType:   intent.PaymentType,
				TransactionID: intent.TransactionID,
			},
		})
	}

	status, _ := s.updateTransactionStatus(s.ctx, orderID, transactionStatusResp)

	var amount int64
	if intent, err := s.rp.Payment.FindByOrderID(s.ctx, orderID); err == nil {
		amount = intent.Amount
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: PaymentStatusResponse{
			OrderID:       orderID,
			Status:        status.ToString(),
			PaymentType:   transactionStatusResp.PaymentType,
			Amount:        amount,
			TransactionID: transactionStatusResp.TransactionID,
		},
	})
}

func (s *Service) MidtransCallback(payload map[string]any) *types.Response {
	orderID, ok := payload["order_id"].(string)
	if !ok || orderID == "" {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid notification payload: missing order_id",
		})
	}

	// Verify signature key
	signatureKey := *helper.GetMapStringValue(payload, "signature_key")
	statusCode := *helper.GetMapStringValue(payload, "status_code")
	grossAmount := *helper.GetMapStringValue(payload, "gross_amount")
	if signatureKey == "" || !s.midtrans.VerifySignature(orderID, statusCode, grossAmount, signatureKey) {
		logger.Error.Printf("Invalid signature key for order %s", orderID)
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusForbidden,
			Message: "Invalid signature key",
		})
	}

	// Verify with Midtrans API (mandatory)
	transactionStatusResp, midErr := s.midtrans.CoreAPI.CheckTransaction(orderID)
	if midErr != nil {
		logger.Error.Printf("Failed to verify callback for order %s: %s", orderID, midErr.GetMessage())
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to verify notification",
			Error:   fmt.Errorf("midtrans check error: %s", midErr.GetMessage()),
		})
	}

	if _, err := s.updateTransactionStatus(s.ctx, orderID, transactionStatusResp); err != nil && !errors.Is(err, paymentRepo.ErrNotFound) {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to record notification",
			Error:   err,
		})
	}

	logger.Info.Printf("Callback processed for order %s: status=%s", orderID, transactionStatusResp.TransactionStatus)

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "ok",
	})
}

// Reconcile re-reads a charge that was left pending and records its outcome. It
// returns ErrStillPending while Midtrans has not settled it, so the caller retries.
func (s *Service) Reconcile(ctx context.Context, orderID string) error {
	resp, midErr := s.midtrans.CoreAPI.CheckTransaction(orderID)
	if midErr != nil {
		return fmt.Errorf("midtrans check error: %s", midErr.GetMessage())
	}
	status, err := s.updateTransactionStatus(ctx, orderID, resp)
	if err != nil {
		return err
	}
	if status.IsPending() {
		return ErrStillPending
	}
	return nil
}

// updateTransactionStatus stores a Midtrans status on the intent and on any order
// already placed against it.
func (s *Service) updateTransactionStatus(ctx context.Context, orderID string, resp *coreapi.TransactionStatusResponse) (enum.PaymentIntentStatusEnum, error) {
	status, _ := mapStatus(resp.TransactionStatus, resp.FraudStatus)

	updates := map[string]any{
		"status":         status,
		"payment_type":   resp.PaymentType,
		"transaction_id": resp.TransactionID,
		"fraud_status":   resp.FraudStatus,
		"status_code":    resp.StatusCode,
	}
	if status == enum.INTENT_SUCCEEDED {
		now := time.Now()
		updates["paid_at"] = &now
	}

	if err := s.rp.Payment.UpdateByOrderID(ctx, orderID, updates); err != nil {
		logger.Error.Printf("Failed to update transaction status for order %s: %v", orderID, err)
		return status, err
	}

	var orderStatus enum.OrderStatusEnum
	switch status {
	case enum.INTENT_SUCCEEDED:
		orderStatus = enum.ORDER_PAYMENT_RECEIVED
	case enum.INTENT_FAILED:
		orderStatus = enum.ORDER_PAYMENT_FAILED
	default:
		return status, nil
	}

	intent, err := s.rp.Payment.FindByOrderID(ctx, orderID)
	if err != nil {
		return status, err
	}
	if err := s.rp.Order.UpdateStatusByPaymentIntent(ctx, intent.ID, orderStatus); err != nil {
		logger.Error.Printf("Failed to update order status for intent %s: %v", intent.ID, err)
		return status, err
	}
	return status, nil
}
