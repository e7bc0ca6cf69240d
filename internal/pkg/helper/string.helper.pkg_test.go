package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommaSeperatedString(t *testing.T) {
	assert.Nil(t, ParseCommaSeperatedString(""))
	assert.Equal(t, []string{"boots", "gloves"}, ParseCommaSeperatedString(" boots, ,gloves,"))
}

func TestGetMapStringValue(t *testing.T) {
	payload := map[string]interface{}{"order_id": "cart-1-x", "status_code": 200, "fraud_status": nil}

	assert.Equal(t, "cart-1-x", *GetMapStringValue(payload, "order_id"))
	assert.Equal(t, "200", *GetMapStringValue(payload, "status_code"))
	assert.Equal(t, "", *GetMapStringValue(payload, "fraud_status"))
	assert.Equal(t, "", *GetMapStringValue(payload, "signature_key"))
}
