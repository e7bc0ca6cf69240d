package midtrans

import (
	"crypto/sha512"
	"encoding/hex"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

type Config struct {
	ServerKey   string
	ClientKey   string
	Environment string // "sandbox" or "production"
}

// ICoreAPI is the subset of the Core API the checkout uses.
type ICoreAPI interface {
	ChargeTransaction(req *coreapi.ChargeReq) (*coreapi.ChargeResponse, *midtrans.Error)
	CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

type MidtransClient struct {
	CoreAPI   ICoreAPI
	ServerKey string
	ClientKey string
}

func Setup(cfg *Config) *MidtransClient {
	env := midtrans.Sandbox
	if cfg.Environment == "production" {
		env = midtrans.Production
	}

	coreAPIClient := &coreapi.Client{}
	coreAPIClient.New(cfg.ServerKey, env)

	return &MidtransClient{
		CoreAPI:   coreAPIClient,
		ServerKey: cfg.ServerKey,
		ClientKey: cfg.ClientKey,
	}
}

// VerifySignature checks a notification's signature_key: sha512(order_id+status_code+gross_amount+server_key).
func (m *MidtransClient) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	return Signature(orderID, statusCode, grossAmount, m.ServerKey) == signatureKey
}

func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	hash := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(hash[:])
}
