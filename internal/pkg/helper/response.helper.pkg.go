package helper

import (
	"net/http"

	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/logger"
)

// ParseResponse fills in the default message for r's status code and logs server errors.
func ParseResponse(r *types.Response) *types.Response {
	if r == nil {
		return &types.Response{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
	}
	if r.Code == 0 {
		if r.Error != nil {
			r.Code = http.StatusInternalServerError
		} else {
			r.Code = http.StatusOK
		}
	}
	if r.Message == "" {
		r.Message = http.StatusText(r.Code)
	}
	if r.Code >= http.StatusInternalServerError && r.Error != nil {
		logger.Error.Printf("%s: %v", r.Message, r.Error)
	}
	return r
}

// ToResponseAPI converts r into the envelope written to clients.
func ToResponseAPI(r *types.Response) *types.ResponseAPI {
	res := &types.ResponseAPI{
		Status:  r.Code,
		Message: r.Message,
		Data:    r.Data,
	}
	if r.Error != nil && r.Code < http.StatusInternalServerError {
		res.Error = r.Error.Error()
	}
	return res
}
