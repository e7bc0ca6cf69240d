package payment

import (
	"context"
	"strconv"
	"time"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/rabbitmq"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"golang.org/x/text/language"
)

// mapStatus translates a Midtrans transaction status into an intent status. Terminal
// failures come back as a provider error carrying the message shown to the buyer.
func mapStatus(transactionStatus, fraudStatus string) (enum.PaymentIntentStatusEnum, *models.ProviderError) {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return enum.INTENT_REQUIRES_ACTION, nil
		}
		return enum.INTENT_SUCCEEDED, nil
	case "settlement":
		return enum.INTENT_SUCCEEDED, nil
	case "pending", "authorize":
		return enum.INTENT_PROCESSING, nil
	case "deny":
		return enum.INTENT_FAILED, &models.ProviderError{Type: "card_error", Code: "card_declined", Message: "Your card was declined."}
	case "cancel":
		return enum.INTENT_FAILED, &models.ProviderError{Type: "card_error", Code: "payment_canceled", Message: "The payment was canceled."}
	case "expire":
		return enum.INTENT_FAILED, &models.ProviderError{Type: "card_error", Code: "payment_expired", Message: "The payment expired before it was completed."}
	case "failure":
		return enum.INTENT_FAILED, &models.ProviderError{Type: "api_error", Code: "processing_error", Message: "An error occurred while processing your card. Try again in a little bit."}
	}
	return enum.INTENT_REQUIRES_PAYMENT_METHOD, nil
}

func fromMidtransError(err *midtrans.Error) *models.ProviderError {
	return &models.ProviderError{
		Type:    "api_error",
		Code:    strconv.Itoa(err.GetStatusCode()),
		Message: err.GetMessage(),
	}
}

func countryISO3(alpha2 string) string {
	region, err := language.ParseRegion(alpha2)
	if err != nil {
		return alpha2
	}
	return region.ISO3()
}

func chargeRequest(intent *models.PaymentIntent, tok *models.ConfirmationToken, buyerEmail string, threeDS bool) *coreapi.ChargeReq {
	req := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeCreditCard,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  intent.OrderID,
			GrossAmt: intent.Amount,
		},
		CreditCard: &coreapi.CreditCardDetails{
			TokenID:        tok.PaymentMethodPreview.Card.TokenID,
			Authentication: threeDS,
		},
		CustomerDetails: &midtrans.CustomerDetails{
			Email: buyerEmail,
		},
	}
	if tok.Shipping != nil && tok.Shipping.Address != nil {
		a := tok.Shipping.Address
		req.CustomerDetails.FName = tok.Shipping.Name
		req.CustomerDetails.ShipAddr = &midtrans.CustomerAddress{
			FName:       tok.Shipping.Name,
			Address:     a.Line1,
			City:        a.City,
			Postcode:    a.PostalCode,
			CountryCode: countryISO3(a.Country),
		}
	}
	return req
}

// confirm charges the card bound to tok against its payment intent. An intent that
// already succeeded is reported as such without a second charge.
func (s *Service) confirm(ctx context.Context, tok *models.ConfirmationToken, buyerEmail string) (*models.PaymentIntentResult, error) {
	intent, err := s.rp.Payment.FindByID(ctx, tok.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if intent.Status == enum.INTENT_SUCCEEDED {
		return &models.PaymentIntentResult{ID: intent.ID, Status: intent.Status, Amount: intent.Amount}, nil
	}

	// Midtrans refuses a second charge on an order id, so a retry after a failure needs a fresh one.
	if intent.Status == enum.INTENT_FAILED {
		orderID, err := mintOrderID(intent.CartID)
		if err != nil {
			return nil, err
		}
		err = s.rp.Payment.Update(ctx, intent.ID, map[string]any{
			"order_id": orderID,
			"status":   enum.INTENT_REQUIRES_PAYMENT_METHOD,
		})
		if err != nil {
			return nil, err
		}
		intent.OrderID = orderID
	}

	resp, midErr := s.midtrans.CoreAPI.ChargeTransaction(chargeRequest(intent, tok, buyerEmail, s.threeDS))
	if midErr != nil {
		logger.Error.Printf("Failed to charge order %s: %s", intent.OrderID, midErr.GetMessage())
		return nil, fromMidtransError(midErr)
	}

	status, perr := mapStatus(resp.TransactionStatus, resp.FraudStatus)
	updates := map[string]any{
		"status":         status,
		"payment_type":   resp.PaymentType,
		"transaction_id": resp.TransactionID,
		"fraud_status":   resp.FraudStatus,
		"status_code":    resp.StatusCode,
		"masked_card":    resp.MaskedCard,
	}
	if status == enum.INTENT_SUCCEEDED {
		now := time.Now()
		updates["paid_at"] = &now
	}
	if err := s.rp.Payment.Update(ctx, intent.ID, updates); err != nil {
		logger.Error.Printf("Failed to record charge for intent %s: %v", intent.ID, err)
	}

	if perr != nil {
		return nil, perr
	}
	if status.IsPending() {
		s.scheduleReconcile(ctx, intent)
	}
	return &models.PaymentIntentResult{ID: intent.ID, Status: status, Amount: intent.Amount}, nil
}

func (s *Service) scheduleReconcile(ctx context.Context, intent *models.PaymentIntent) {
	if s.publisher == nil {
		return
	}
	evt := ReconcileEvent{OrderID: intent.OrderID, IntentID: intent.ID}
	if err := s.publisher.Publish(ctx, rabbitmq.QueuePaymentReconcile, PatternReconcile, evt); err != nil {
		logger.Warning.Printf("Failed to schedule reconciliation for %s: %v", intent.OrderID, err)
	}
}
