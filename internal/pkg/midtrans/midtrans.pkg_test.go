package midtrans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	m := &MidtransClient{ServerKey: "SB-Mid-server-key"}
	sig := Signature("cart-1-abc", "200", "10000.00", "SB-Mid-server-key")

	assert.Len(t, sig, 128)
	assert.True(t, m.VerifySignature("cart-1-abc", "200", "10000.00", sig))
	assert.False(t, m.VerifySignature("cart-1-abc", "201", "10000.00", sig))
}

func TestSetupSelectsEnvironment(t *testing.T) {
	m := Setup(&Config{ServerKey: "k", ClientKey: "c", Environment: "production"})
	assert.Equal(t, "c", m.ClientKey)
	assert.NotNil(t, m.CoreAPI)
}
